package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"

	"github.com/mxkacsa/nelgen"
	_ "github.com/mxkacsa/nelgen/blocks"
	"github.com/mxkacsa/nelgen/internal/config"
	"github.com/mxkacsa/nelgen/parse"
	"github.com/mxkacsa/nelgen/trace"
)

// OutputExt is the extension of generated files.
const OutputExt = ".nelua"

type options struct {
	input    string
	output   string
	config   string
	validate bool
	trace    string
	jobs     int
	verbose  bool
	print    bool
}

// closingHook is a trace hook that owns the files it writes to.
type closingHook struct {
	trace.Hook
	files []io.Closer
}

// Shutdown closes the trace files when the injector shuts down.
func (h *closingHook) Shutdown() error {
	var errs []error
	for _, f := range h.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func newInjector(opts options, stderr io.Writer) *do.Injector {
	i := do.New()
	do.ProvideValue(i, opts)

	do.Provide(i, func(i *do.Injector) (*log.Logger, error) {
		w := io.Discard
		if do.MustInvoke[options](i).verbose {
			w = stderr
		}
		return log.New(w, "nelgen: ", 0), nil
	})

	do.Provide(i, func(i *do.Injector) (*config.Config, error) {
		o := do.MustInvoke[options](i)
		path := o.config
		if path == "" {
			path = config.Find(inputDir(o.input))
		}
		if path != "" {
			do.MustInvoke[*log.Logger](i).Printf("using config %s", path)
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if o.jobs > 0 {
			cfg.Jobs = o.jobs
		}
		return cfg, nil
	})

	do.Provide(i, func(i *do.Injector) (*parse.Parser, error) {
		p := parse.NewParser()
		p.AddValidator(&parse.KindValidator{Registry: nelgen.DefaultRegistry})
		return p, nil
	})

	do.Provide(i, func(i *do.Injector) (trace.Hook, error) {
		o := do.MustInvoke[options](i)
		hooks := trace.NewMultiHook()
		h := &closingHook{Hook: hooks}
		if o.trace != "" {
			f, err := os.Create(o.trace)
			if err != nil {
				return nil, fmt.Errorf("cannot create trace file: %w", err)
			}
			hooks.Add(trace.NewWriterHook(f))
			h.files = append(h.files, f)
		}
		if o.verbose {
			hooks.Add(trace.NewPrintHook(stderr))
		}
		if len(h.files) == 0 && !o.verbose {
			return trace.NoopHook{}, nil
		}
		return h, nil
	})

	return i
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	injector := newInjector(opts, stderr)
	defer injector.Shutdown()

	logger := do.MustInvoke[*log.Logger](injector)
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	if opts.print {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
	parser := do.MustInvoke[*parse.Parser](injector)
	hook, err := do.Invoke[trace.Hook](injector)
	if err != nil {
		return err
	}

	inputs, err := resolveInputs(opts.input)
	if err != nil {
		return err
	}
	logger.Printf("%d input file(s), %d job(s)", len(inputs), cfg.Jobs)

	if len(inputs) > 1 && opts.output == "" && !opts.validate {
		return fmt.Errorf("-output directory is required for %d inputs", len(inputs))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			graph, err := parser.ParseFile(in)
			if err != nil {
				return err
			}
			if opts.validate {
				logger.Printf("%s: valid", in)
				return nil
			}

			gen := nelgen.New(append(cfg.Options(), nelgen.WithHook(hook))...)
			code, err := gen.Generate(graph)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}

			out := outputPath(in, opts.output, len(inputs) > 1)
			if out == "" {
				_, err = io.WriteString(stdout, code)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(code), 0o644); err != nil {
				return fmt.Errorf("cannot write output file: %w", err)
			}
			logger.Printf("generated %s", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.validate {
		fmt.Fprintln(stdout, "Validation passed!")
	}
	return nil
}

// resolveInputs expands input into graph files. A directory yields every
// graph file directly inside it, a pattern with glob metacharacters the
// matching graph files.
func resolveInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && isGraphFile(e.Name()) {
				files = append(files, filepath.Join(input, e.Name()))
			}
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no graph files in %s", input)
		}
		return files, nil
	case err == nil:
		return []string{input}, nil
	case !strings.ContainsAny(input, "*?["):
		return nil, fmt.Errorf("cannot read input: %w", err)
	}

	matches, err := filepath.Glob(input)
	if err != nil {
		return nil, fmt.Errorf("bad input pattern: %w", err)
	}
	var files []string
	for _, m := range matches {
		if isGraphFile(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no graph files match %s", input)
	}
	return files, nil
}

// inputDir returns the directory the input lives in.
func inputDir(input string) string {
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		return input
	}
	return filepath.Dir(input)
}

func isGraphFile(name string) bool {
	return slices.Contains(parse.Extensions, strings.ToLower(filepath.Ext(name)))
}

// outputPath returns where the code generated from in goes; "" means stdout.
func outputPath(in, output string, batch bool) string {
	if output == "" {
		return ""
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + OutputExt
	if batch || strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, base)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, base)
	}
	return output
}
