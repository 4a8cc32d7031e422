package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mxkacsa/nelgen"
)

const sampleJSON = `{
	"name": "sample",
	"variables": [{"id": "v1", "name": "score"}],
	"nodes": [
		{
			"id": "set",
			"kind": "variables_set",
			"fields": {"VAR": "v1"},
			"inputs": [
				{"name": "VALUE", "node": {"id": "n", "kind": "math_number", "fields": {"NUM": "5"}}}
			],
			"next": {"id": "p", "kind": "text_print"}
		}
	]
}`

func TestParser_ParseJSON(t *testing.T) {
	graph, err := NewParser().Parse([]byte(sampleJSON), "sample.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if graph.Name != "sample" {
		t.Errorf("Name = %q, want sample", graph.Name)
	}
	if len(graph.Variables) != 1 || graph.Variables[0].Name != "score" {
		t.Errorf("Variables = %+v", graph.Variables)
	}
	if len(graph.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(graph.Nodes))
	}

	set := graph.Nodes[0]
	if set.Kind != "variables_set" || set.Field("VAR") != "v1" {
		t.Errorf("unexpected node %+v", set)
	}
	value := set.Input("VALUE")
	if value == nil || value.Field("NUM") != "5" {
		t.Fatalf("VALUE input = %+v", value)
	}
	if set.Next == nil || set.Next.Kind != "text_print" {
		t.Errorf("Next = %+v", set.Next)
	}
}

func TestParser_ParseYAML(t *testing.T) {
	input := []byte(`
name: loop
nodes:
  - kind: controls_whileUntil
    fields:
      MODE: WHILE
    inputs:
      - name: BOOL
        node:
          kind: logic_boolean
          fields:
            BOOL: "TRUE"
      - name: DO
        type: statement
        node:
          kind: controls_flow_statements
          fields:
            FLOW: BREAK
`)
	graph, err := NewParser().Parse(input, "loop.yaml", FormatYAML)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	loop := graph.Nodes[0]
	if loop.Kind != "controls_whileUntil" {
		t.Errorf("Kind = %q", loop.Kind)
	}
	body := loop.Input("DO")
	if body == nil || body.Field("FLOW") != "BREAK" {
		t.Fatalf("DO input = %+v", body)
	}
	if loop.Input("BOOL").Field("BOOL") != "TRUE" {
		t.Error("BOOL field lost")
	}
}

func TestParser_ParseMsgpack(t *testing.T) {
	original := &nelgen.Graph{
		Name: "packed",
		Nodes: []*nelgen.Node{
			{ID: "a", Kind: "text_print", Inputs: []nelgen.Input{
				{Name: "TEXT", Node: &nelgen.Node{ID: "b", Kind: "text", Fields: map[string]string{"TEXT": "hi"}}},
			}},
		},
	}
	data, err := msgpack.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	graph, err := NewParser().Parse(data, "packed.msgpack", FormatMsgpack)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if graph.Name != "packed" {
		t.Errorf("Name = %q", graph.Name)
	}
	text := graph.Nodes[0].Input("TEXT")
	if text == nil || text.Field("TEXT") != "hi" {
		t.Errorf("TEXT input = %+v", text)
	}
}

func TestParser_BareNodeList(t *testing.T) {
	input := []byte(`[{"kind": "text_print"}, {"kind": "logic_null"}]`)
	graph, err := NewParser().Parse(input, "dir/list.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(graph.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(graph.Nodes))
	}
	if graph.Name != "list" {
		t.Errorf("Name = %q, want name derived from source", graph.Name)
	}
}

func TestParser_AssignsIDs(t *testing.T) {
	input := []byte(`[{"kind": "text_print", "next": {"kind": "text_print"}}]`)
	graph, err := NewParser().Parse(input, "ids.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	first, second := graph.Nodes[0].ID, graph.Nodes[0].Next.ID
	if first == "" || second == "" || first == second {
		t.Errorf("ids not assigned: %q, %q", first, second)
	}

	again, err := NewParser().Parse(input, "ids.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if again.Nodes[0].ID != first || again.Nodes[0].Next.ID != second {
		t.Errorf("ids differ between parses: %q, %q", again.Nodes[0].ID, again.Nodes[0].Next.ID)
	}

	other, err := NewParser().Parse(input, "other.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if other.Nodes[0].ID == first {
		t.Error("graphs with different names share node ids")
	}

	graph, err = NewParser().KeepIDs().Parse(input, "ids.json", FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if graph.Nodes[0].ID != "" {
		t.Errorf("KeepIDs assigned %q", graph.Nodes[0].ID)
	}
}

func TestParser_SyntaxError(t *testing.T) {
	input := []byte("{\n  \"nodes\": [\n    {\"kind\": }\n  ]\n}")
	_, err := NewParser().Parse(input, "bad.json", FormatJSON)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
	if !strings.HasPrefix(perr.Error(), "bad.json:3:") {
		t.Errorf("Error() = %q", perr.Error())
	}
}

func TestParser_InvalidDocument(t *testing.T) {
	_, err := NewParser().Parse([]byte(`"just a string"`), "str.json", FormatJSON)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Source != "str.json" {
		t.Errorf("Source = %q", perr.Source)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	graph, err := NewParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if graph.Name != "sample" {
		t.Errorf("Name = %q", graph.Name)
	}

	if _, err := NewParser().ParseFile(filepath.Join(dir, "prog.txt")); err == nil {
		t.Error("expected unsupported extension error")
	}
	if _, err := NewParser().ParseFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected read error")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"a.YAML", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.msgpack", FormatMsgpack},
		{"a.mpk", FormatMsgpack},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, %v, want %v", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("a.xml"); err == nil {
		t.Error("expected error for .xml")
	}
}
