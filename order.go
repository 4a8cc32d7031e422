package nelgen

// Order is the binding strength of a generated expression.
// Lower values bind tighter. See http://www.lua.org/manual/5.3/manual.html#3.4.8
type Order int

const (
	OrderAtomic         Order = 0  // literals
	OrderHigh           Order = 1  // function calls, tables[]
	OrderExponentiation Order = 2  // ^
	OrderUnary          Order = 3  // not # - ~
	OrderMultiplicative Order = 4  // * / %
	OrderAdditive       Order = 5  // + -
	OrderConcatenation  Order = 6  // ..
	OrderRelational     Order = 7  // < > <= >= ~= ==
	OrderAnd            Order = 8  // and
	OrderOr             Order = 9  // or
	OrderNone           Order = 99 // no context, never wrap
)

// NeedsParens reports whether an expression of order inner must be
// parenthesised when used where at most order outer is accepted.
func NeedsParens(inner, outer Order) bool {
	return inner > outer
}

// Tighter returns the next stronger order. Mapping functions use it for the
// right operand of non-associative operators so that a - (b - c) keeps its
// parentheses.
func (o Order) Tighter() Order {
	if o <= OrderAtomic {
		return OrderAtomic
	}
	if o == OrderNone {
		return OrderOr
	}
	return o - 1
}

func (o Order) String() string {
	switch o {
	case OrderAtomic:
		return "atomic"
	case OrderHigh:
		return "high"
	case OrderExponentiation:
		return "exponentiation"
	case OrderUnary:
		return "unary"
	case OrderMultiplicative:
		return "multiplicative"
	case OrderAdditive:
		return "additive"
	case OrderConcatenation:
		return "concatenation"
	case OrderRelational:
		return "relational"
	case OrderAnd:
		return "and"
	case OrderOr:
		return "or"
	case OrderNone:
		return "none"
	}
	return "unknown"
}
