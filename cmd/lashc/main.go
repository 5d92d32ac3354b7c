// Command lashc is the Lash-to-Bash compiler driver, implementing
// spec.md §6.2's CLI contract by composing pkg/analyzer, pkg/codegen and
// pkg/report the way the teacher's root main.go composes pkg/runner: a
// thin kong-parsed Config feeding a testable run(args, stdout) function.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/what386/lash-sub001/pkg/analyzer"
	"github.com/what386/lash-sub001/pkg/codegen"
	"github.com/what386/lash-sub001/pkg/report"
)

// version is stamped at release time; 0.0.0-dev otherwise.
const version = "0.0.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses arguments and drives one compile. A non-nil error always
// corresponds to a process exit code of 1, matching spec.md §6.2.
func run(args []string, stdout io.Writer) error {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("lashc"),
		kong.Description("Compile Lash source to Bash."),
		kong.Writers(stdout, io.Discard),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cfg.Version {
		fmt.Fprintln(stdout, "lashc "+version)
		return nil
	}
	if cfg.Input == "" {
		return fmt.Errorf("lashc: missing input file (see --help)")
	}

	log.SetOutput(stdout)
	log.Printf("analyzing %s", cfg.Input)

	rep := report.New()
	res, err := analyzer.AnalyzePath(cfg.Input, analyzer.Options{IncludeWarnings: true})
	if err != nil {
		return fmt.Errorf("lashc: %w", err)
	}
	rep.AddDiagnostics(res.Diagnostics)
	for _, d := range res.Diagnostics {
		fmt.Fprintln(stdout, d.String())
	}

	if res.HasErrors {
		return fmt.Errorf("lashc: compilation failed with errors")
	}

	if cfg.AST {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dumpProgram(res.Program))
	}

	log.Printf("generating bash")
	out, unsupported := codegen.Generate(res.Program)
	rep.AddUnsupportedAll(unsupported)
	for _, u := range unsupported {
		fmt.Fprintf(stdout, "warning: unsupported construct: %s\n", u)
	}

	switch {
	case cfg.Check:
		if err := checkOutput(cfg.EmitBash, out, stdout); err != nil {
			return err
		}
	case cfg.EmitBash != "":
		if err := os.WriteFile(cfg.EmitBash, []byte(out), 0o644); err != nil {
			return fmt.Errorf("lashc: %w", err)
		}
	default:
		fmt.Fprint(stdout, out)
	}

	if len(unsupported) > 0 {
		return fmt.Errorf("lashc: generator reported %d unsupported construct(s)", len(unsupported))
	}
	return nil
}

// checkOutput compares freshly generated Bash against the file at path,
// printing a unified diff on mismatch, the way the teacher's
// dstManager.PrintDiffs renders pending changes in --dry-run/--check
// mode. A missing path is treated as empty, so --check still reports a
// diff on first generation.
func checkOutput(path, generated string, stdout io.Writer) error {
	if path == "" {
		return nil
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("lashc: %w", err)
		}
		existing = nil
	}

	if bytes.Equal(existing, []byte(generated)) {
		return nil
	}

	edits := myers.ComputeEdits(span.URIFromPath(path), string(existing), generated)
	unified := gotextdiff.ToUnified(path, path, string(existing), edits)
	fmt.Fprint(stdout, unified)
	return fmt.Errorf("lashc: %s is out of date", path)
}
