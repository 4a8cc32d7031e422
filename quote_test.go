package nelgen

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "''"},
		{"hello", "'hello'"},
		{"it's", `'it\'s'`},
		{`a\b`, `'a\\b'`},
		{"a\nb", "'a\\\nb'"},
		{`\'`, `'\\\''`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMultilineQuote(t *testing.T) {
	got := MultilineQuote("one\ntwo")
	want := "'one' .. '\\n' ..\n'two'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if order := MultilineOrder(got); order != OrderConcatenation {
		t.Errorf("order = %v, want concatenation", order)
	}

	single := MultilineQuote("one")
	if single != "'one'" {
		t.Errorf("single line: got %q", single)
	}
	if order := MultilineOrder(single); order != OrderAtomic {
		t.Errorf("single line order = %v, want atomic", order)
	}
}

func TestNeedsParens(t *testing.T) {
	tests := []struct {
		inner, outer Order
		want         bool
	}{
		{OrderAdditive, OrderMultiplicative, true},
		{OrderMultiplicative, OrderAdditive, false},
		{OrderAdditive, OrderAdditive, false},
		{OrderOr, OrderNone, false},
		{OrderAtomic, OrderAtomic, false},
		{OrderUnary, OrderExponentiation, true},
	}
	for _, tt := range tests {
		if got := NeedsParens(tt.inner, tt.outer); got != tt.want {
			t.Errorf("NeedsParens(%v, %v) = %v, want %v", tt.inner, tt.outer, got, tt.want)
		}
	}
}

func TestOrderTighter(t *testing.T) {
	if got := OrderAdditive.Tighter(); got != OrderMultiplicative {
		t.Errorf("Additive.Tighter() = %v", got)
	}
	if got := OrderAtomic.Tighter(); got != OrderAtomic {
		t.Errorf("Atomic.Tighter() = %v", got)
	}
	if got := OrderNone.Tighter(); got != OrderOr {
		t.Errorf("None.Tighter() = %v", got)
	}
}
