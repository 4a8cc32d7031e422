package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mxkacsa/nelgen/parse"
)

const helloJSON = `{"nodes": [{"kind": "text_print", "inputs": [
  {"name": "TEXT", "node": {"kind": "text", "fields": {"TEXT": "hi"}}}
]}]}`

const helloYAML = `nodes:
  - kind: text_print
    inputs:
      - name: TEXT
        node:
          kind: text
          fields:
            TEXT: yo
`

const prelude = "require \"string\"\nrequire \"math\"\nrequire \"vector\"\nrequire \"io\"\n\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_SingleFileToStdout(t *testing.T) {
	in := writeFile(t, t.TempDir(), "hello.json", helloJSON)
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), options{input: in}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := prelude + "print('hi')\n"
	if stdout.String() != want {
		t.Errorf("got %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", stderr.String())
	}
}

func TestRun_BatchDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", helloJSON)
	writeFile(t, dir, "b.yaml", helloYAML)
	writeFile(t, dir, "notes.txt", "ignored")
	out := filepath.Join(t.TempDir(), "out")

	opts := options{input: dir, output: out, jobs: 2}
	if err := run(context.Background(), opts, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for name, want := range map[string]string{
		"a.nelua": prelude + "print('hi')\n",
		"b.nelua": prelude + "print('yo')\n",
	} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}
}

func TestRun_BatchRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", helloJSON)
	writeFile(t, dir, "b.json", helloJSON)
	err := run(context.Background(), options{input: dir}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "-output") {
		t.Errorf("got %v, want -output error", err)
	}
}

func TestRun_Validate(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	var stdout bytes.Buffer
	if err := run(context.Background(), options{input: in, validate: true}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout.String() != "Validation passed!\n" {
		t.Errorf("got %q", stdout.String())
	}
}

func TestRun_UnknownKind(t *testing.T) {
	in := writeFile(t, t.TempDir(), "bad.json", `[{"kind": "mystery"}]`)
	err := run(context.Background(), options{input: in, validate: true}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Errorf("got %v, want unknown kind error", err)
	}
}

func TestRun_ConfigAndTrace(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	cfg := writeFile(t, dir, "nelgen.toml", "prelude = []\n")
	tracePath := filepath.Join(dir, "trace.jsonl")
	out := filepath.Join(dir, "hello.nelua")

	var stderr bytes.Buffer
	opts := options{input: in, output: out, config: cfg, trace: tracePath, verbose: true}
	if err := run(context.Background(), opts, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "print('hi')\n" {
		t.Errorf("got %q", data)
	}

	trace, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"type":"pass:start"`, `"pass":"hello"`, `"kind":"text_print"`, `"type":"pass:end"`} {
		if !bytes.Contains(trace, []byte(want)) {
			t.Errorf("trace does not contain %s:\n%s", want, trace)
		}
	}
	if !strings.Contains(stderr.String(), "nelgen: generated "+out) {
		t.Errorf("verbose log missing: %q", stderr.String())
	}
}

func TestRun_ConfigNextToInput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	writeFile(t, dir, "nelgen.toml", "prelude = []\nstatement_suffix = \"step(%1)\"\n")

	var stdout bytes.Buffer
	if err := run(context.Background(), options{input: in}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "print('hi')\nstep('" + firstNodeID(t, in) + "')\n"
	if stdout.String() != want {
		t.Errorf("got %q, want %q", stdout.String(), want)
	}
}

func TestRun_DeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	cfg := writeFile(t, dir, "nelgen.toml", "prelude = []\nstatement_prefix = \"at(%1)\"\n")

	var first, second bytes.Buffer
	for _, out := range []*bytes.Buffer{&first, &second} {
		if err := run(context.Background(), options{input: in, config: cfg}, out, &bytes.Buffer{}); err != nil {
			t.Fatalf("run failed: %v", err)
		}
	}
	if first.String() != second.String() {
		t.Errorf("runs differ: %q vs %q", first.String(), second.String())
	}
}

func TestRun_PrintConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	writeFile(t, dir, "nelgen.toml", "loop_trap = \"trap()\"\n")

	var stdout bytes.Buffer
	if err := run(context.Background(), options{input: in, print: true}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"loop_trap", "trap()", "jobs = 4"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output %q does not contain %q", stdout.String(), want)
		}
	}
}

// firstNodeID returns the id the parser gives the first top-level node of in.
func firstNodeID(t *testing.T, in string) string {
	t.Helper()
	graph, err := parse.NewParser().ParseFile(in)
	if err != nil {
		t.Fatal(err)
	}
	return graph.Nodes[0].ID
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "hello.json", helloJSON)
	cfg := writeFile(t, dir, "nelgen.toml", "jobs = 0\n")
	err := run(context.Background(), options{input: in, config: cfg}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "jobs") {
		t.Errorf("got %v, want config error", err)
	}
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", helloJSON)
	b := writeFile(t, dir, "b.YML", helloYAML)
	writeFile(t, dir, "c.txt", "")

	got, err := resolveInputs(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if !reflect.DeepEqual(got, []string{a, b}) {
		t.Errorf("glob = %v", got)
	}

	got, err = resolveInputs(a)
	if err != nil || !reflect.DeepEqual(got, []string{a}) {
		t.Errorf("file = %v, %v", got, err)
	}

	if _, err := resolveInputs(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := resolveInputs(filepath.Join(dir, "*.msgpack")); err == nil {
		t.Error("expected error for empty glob")
	}
	if _, err := resolveInputs(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	sep := string(filepath.Separator)
	tests := []struct {
		name   string
		in     string
		output string
		batch  bool
		want   string
	}{
		{"stdout", "x/a.json", "", false, ""},
		{"file", "x/a.json", "b.nelua", false, "b.nelua"},
		{"batch", "x/a.json", "out", true, filepath.Join("out", "a.nelua")},
		{"trailing separator", "x/a.yaml", "out" + sep, false, filepath.Join("out", "a.nelua")},
		{"existing directory", "x/a.json", dir, false, filepath.Join(dir, "a.nelua")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.in, tt.output, tt.batch); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
