package blocks

import "github.com/mxkacsa/nelgen"

func init() {
	nelgen.MustRegister("colour_picker", generateColourPicker)
	nelgen.MustRegister("colour_random", generateColourRandom)
	nelgen.MustRegister("colour_rgb", generateColourRGB)
	nelgen.MustRegister("colour_blend", generateColourBlend)
}

func generateColourPicker(g *gen, n *node) (code, error) {
	return value(nelgen.Quote(n.Field("COLOUR")), nelgen.OrderAtomic)
}

func generateColourRandom(g *gen, n *node) (code, error) {
	return value("string.format('#%06x', math.random(0, 2^24 - 1))", nelgen.OrderHigh)
}

func generateColourRGB(g *gen, n *node) (code, error) {
	fn := g.ProvideFunction("colour_rgb", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(r: number, g: number, b: number): string",
		"  r = math.floor(math.min(100, math.max(0, r)) * 2.55 + .5)",
		"  g = math.floor(math.min(100, math.max(0, g)) * 2.55 + .5)",
		"  b = math.floor(math.min(100, math.max(0, b)) * 2.55 + .5)",
		"  return string.format('#%02x%02x%02x', r, g, b)",
		"end",
	})
	in := inputs(g, n)
	r := in.get("RED", nelgen.OrderNone, "0")
	gr := in.get("GREEN", nelgen.OrderNone, "0")
	b := in.get("BLUE", nelgen.OrderNone, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(fn+"("+r+", "+gr+", "+b+")", nelgen.OrderHigh)
}

func generateColourBlend(g *gen, n *node) (code, error) {
	fn := g.ProvideFunction("colour_blend", []string{
		"local function " + nelgen.FunctionNamePlaceholder + "(colour1: string, colour2: string, ratio: number): string",
		"  local r1: number = tonumber(string.sub(colour1, 2, 3), 16)",
		"  local r2: number = tonumber(string.sub(colour2, 2, 3), 16)",
		"  local g1: number = tonumber(string.sub(colour1, 4, 5), 16)",
		"  local g2: number = tonumber(string.sub(colour2, 4, 5), 16)",
		"  local b1: number = tonumber(string.sub(colour1, 6, 7), 16)",
		"  local b2: number = tonumber(string.sub(colour2, 6, 7), 16)",
		"  local ratio: number = math.min(1, math.max(0, ratio))",
		"  local r: number = math.floor(r1 * (1 - ratio) + r2 * ratio + .5)",
		"  local g: number = math.floor(g1 * (1 - ratio) + g2 * ratio + .5)",
		"  local b: number = math.floor(b1 * (1 - ratio) + b2 * ratio + .5)",
		"  return string.format('#%02x%02x%02x', r, g, b)",
		"end",
	})
	in := inputs(g, n)
	c1 := in.get("COLOUR1", nelgen.OrderNone, "'#000000'")
	c2 := in.get("COLOUR2", nelgen.OrderNone, "'#000000'")
	ratio := in.get("RATIO", nelgen.OrderNone, "0")
	if in.err != nil {
		return fail(in.err)
	}
	return value(fn+"("+c1+", "+c2+", "+ratio+")", nelgen.OrderHigh)
}
