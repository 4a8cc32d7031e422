package blocks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/mxkacsa/nelgen"
	"github.com/mxkacsa/nelgen/internal/config"
	"github.com/mxkacsa/nelgen/parse"
)

// TestGolden runs every testdata/*.txtar archive. An archive holds one
// graph.json or graph.yaml, the expected want.nelua and optionally a
// nelgen.toml with generator settings.
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden archives found")
	}

	for _, path := range archives {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile failed: %v", err)
			}
			files := make(map[string][]byte, len(ar.Files))
			for _, f := range ar.Files {
				files[f.Name] = f.Data
			}

			opts := []nelgen.Option{nelgen.WithPrelude()}
			if data, ok := files[config.FileName]; ok {
				cfgPath := filepath.Join(t.TempDir(), config.FileName)
				if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
					t.Fatal(err)
				}
				cfg, err := config.Load(cfgPath)
				if err != nil {
					t.Fatalf("config: %v", err)
				}
				opts = cfg.Options()
			}

			parser := parse.NewParser()
			parser.AddValidator(&parse.KindValidator{Registry: nelgen.DefaultRegistry})
			var graph *nelgen.Graph
			for _, f := range ar.Files {
				if !strings.HasPrefix(f.Name, "graph.") {
					continue
				}
				format, err := parse.FormatFromPath(f.Name)
				if err != nil {
					t.Fatal(err)
				}
				graph, err = parser.Parse(f.Data, f.Name, format)
				if err != nil {
					t.Fatalf("Parse failed: %v", err)
				}
			}
			if graph == nil {
				t.Fatal("archive has no graph file")
			}

			got, err := nelgen.New(opts...).Generate(graph)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if want := string(files["want.nelua"]); got != want {
				t.Errorf("output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}
