// nelgen generates Nelua source code from visual node graphs.
//
// Usage:
//
//	nelgen -input=program.json -output=program.nelua
//	nelgen -input='graphs/*.yaml' -output=out/ -jobs=8
//
// Graph format (JSON, YAML or msgpack):
//
//	{
//	  "name": "hello",
//	  "variables": [{"id": "v1", "name": "greeting"}],
//	  "nodes": [
//	    {
//	      "kind": "text_print",
//	      "inputs": [
//	        {"name": "TEXT", "node": {"kind": "text", "fields": {"TEXT": "hi"}}}
//	      ]
//	    }
//	  ]
//	}
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

var (
	inputFlag    = flag.String("input", "", "input graph file, directory or glob (required)")
	outputFlag   = flag.String("output", "", "output file or directory (stdout for a single input when empty)")
	configFlag   = flag.String("config", "", "path to a nelgen.toml settings file (default: the one next to the input)")
	validateFlag = flag.Bool("validate", false, "only validate, don't generate")
	traceFlag    = flag.String("trace", "", "write generation trace as JSON lines to this file")
	jobsFlag     = flag.Int("jobs", 0, "number of files generated concurrently (default from config)")
	verboseFlag  = flag.Bool("v", false, "log progress to stderr")
	printFlag    = flag.Bool("print-config", false, "print the effective settings as TOML and exit")
)

func main() {
	flag.Parse()

	if *inputFlag == "" {
		fmt.Fprintln(os.Stderr, "nelgen: -input flag is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{
		input:    *inputFlag,
		output:   *outputFlag,
		config:   *configFlag,
		validate: *validateFlag,
		trace:    *traceFlag,
		jobs:     *jobsFlag,
		verbose:  *verboseFlag,
		print:    *printFlag,
	}
	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "nelgen: %v\n", err)
		os.Exit(1)
	}
}
