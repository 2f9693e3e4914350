package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/engine"
	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/pool"
)

// bindings collects repeated -var name=value flags.
type bindings map[string]string

func (b bindings) String() string {
	var parts []string
	for k, v := range b {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (b bindings) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return errors.Errorf("expected name=value, got %q", s)
	}
	b[strings.TrimSpace(name)] = strings.TrimSpace(value)
	return nil
}

// configPath finds -config before flags are parsed so the file can supply
// the defaults that the remaining flags override.
func configPath(args []string) string {
	for i, a := range args {
		a = strings.TrimLeft(a, "-")
		if v, ok := strings.CutPrefix(a, "config="); ok {
			return v
		}
		if a == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func main() {
	cfg := engine.DefaultConfig()
	path := configPath(os.Args[1:])
	if path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			fail(err)
		}
		cfg = loaded
	}
	vars := bindings{}
	for k, v := range cfg.Bindings {
		vars[k] = v
	}
	precision := uint(cfg.Precision)
	generate := 0

	flag.String("config", path, "YAML config file")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "numeric mode (decimal, fraction)")
	flag.UintVar(&precision, "precision", precision, "significant digits")
	flag.StringVar(&cfg.Rounding, "rounding", cfg.Rounding, "rounding mode ("+strings.Join(expr.Roundings, ", ")+")")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	flag.BoolVar(&cfg.LaTeX, "latex", cfg.LaTeX, "print LaTeX instead of plain text")
	flag.BoolVar(&cfg.Trace, "trace", cfg.Trace, "log every simplification step to stderr")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose progress output")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	flag.StringVar(&cfg.Operation, "op", cfg.Operation, "operation ("+strings.Join(engine.Operations, ", ")+")")
	flag.StringVar(&cfg.Variable, "x", cfg.Variable, "variable to derive, solve or analyze for")
	flag.Var(vars, "var", "bind a variable, name=value (repeatable)")
	flag.StringVar(&cfg.Pool, "pool", cfg.Pool, "expression pool for -generate ("+strings.Join(pool.Names(), ", ")+")")
	flag.IntVar(&cfg.MaxDepth, "maxdepth", cfg.MaxDepth, "max generated tree depth")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	flag.IntVar(&generate, "generate", generate, "run N random expressions from the pool")
	flag.Parse()

	cfg.Precision = uint32(precision)
	if len(vars) > 0 {
		cfg.Bindings = vars
	}

	e, err := engine.New(cfg)
	if err != nil {
		fail(err)
	}

	inputs := flag.Args()
	switch {
	case generate > 0:
		inputs, err = e.Generate(generate)
		if err != nil {
			fail(err)
		}
	case len(inputs) > 0:
	case isatty.IsTerminal(os.Stdin.Fd()) && cfg.Format == "text":
		if err := repl(e, cfg); err != nil {
			fail(err)
		}
		return
	default:
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			fail(errors.Wrap(err, "reading stdin"))
		}
	}

	report := engine.NewReport(cfg, e.Batch(inputs))
	switch cfg.Format {
	case "json":
		if err := engine.WriteJSON(os.Stdout, report); err != nil {
			fail(errors.Wrap(err, "writing JSON"))
		}
	default:
		engine.WriteTextReport(os.Stdout, report)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
