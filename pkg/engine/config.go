package engine

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Operations lists the accepted values of Config.Operation.
var Operations = []string{"auto", "eval", "simplify", "derive", "solve", "domain"}

// Config holds all parameters for a run.
type Config struct {
	Mode      string            `yaml:"mode" json:"mode"`           // "decimal" or "fraction"
	Precision uint32            `yaml:"precision" json:"precision"` // significant digits
	Rounding  string            `yaml:"rounding" json:"rounding"`
	Format    string            `yaml:"format" json:"format"` // "text" or "json"
	LaTeX     bool              `yaml:"latex" json:"latex"`
	Trace     bool              `yaml:"trace" json:"trace"`
	Verbose   bool              `yaml:"verbose" json:"verbose"`
	Workers   int               `yaml:"workers" json:"workers"`
	Operation string            `yaml:"operation" json:"operation"`
	Variable  string            `yaml:"variable" json:"variable,omitempty"`
	Bindings  map[string]string `yaml:"bindings" json:"bindings,omitempty"`
	Pool      string            `yaml:"pool" json:"pool"`
	MaxDepth  int               `yaml:"maxdepth" json:"maxdepth"`
	Seed      int64             `yaml:"seed" json:"seed"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	num := expr.DefaultConfig()
	return Config{
		Mode:      num.Mode.String(),
		Precision: num.Precision,
		Rounding:  num.Rounding,
		Format:    "text",
		Workers:   runtime.NumCPU(),
		Operation: "auto",
		Pool:      "moderate",
		MaxDepth:  4,
		Seed:      0, // 0 = random
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// numeric converts the numeric settings for the expr package.
func (c Config) numeric() (expr.Config, error) {
	num := expr.Config{Precision: c.Precision, Rounding: c.Rounding}
	switch c.Mode {
	case "decimal", "":
		num.Mode = expr.Decimal
	case "fraction", "fractional":
		num.Mode = expr.Fractional
	default:
		return num, errors.Errorf("unknown mode: %s (available: decimal, fraction)", c.Mode)
	}
	if c.Rounding != "" && !expr.ValidRounding(c.Rounding) {
		return num, errors.Errorf("unknown rounding: %s (available: %v)", c.Rounding, expr.Roundings)
	}
	return num, nil
}

func (c Config) validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown format: %s (available: text, json)", c.Format)
	}
	for _, op := range Operations {
		if op == c.Operation {
			return nil
		}
	}
	return errors.Errorf("unknown operation: %s (available: %v)", c.Operation, Operations)
}
