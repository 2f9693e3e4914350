package expr

import (
	"github.com/cockroachdb/apd"
)

// Mode selects how scalar sub-expressions are folded.
type Mode int

const (
	// Decimal folds every scalar to a rounded decimal constant.
	Decimal Mode = iota
	// Fractional folds rational scalars to exact fractions and keeps
	// irrational ones symbolic.
	Fractional
)

func (m Mode) String() string {
	if m == Fractional {
		return "fraction"
	}
	return "decimal"
}

// Config holds the numeric settings for evaluation and simplification.
type Config struct {
	Mode      Mode
	Precision uint32 // significant digits
	Rounding  string // one of Roundings
}

// DefaultConfig returns the default numeric settings.
func DefaultConfig() Config {
	return Config{
		Mode:      Decimal,
		Precision: 16,
		Rounding:  "half_even",
	}
}

// Roundings lists the accepted rounding mode names.
var Roundings = []string{"half_even", "half_up", "half_down", "up", "down", "ceiling", "floor"}

// ValidRounding reports whether name is one of Roundings.
func ValidRounding(name string) bool {
	for _, r := range Roundings {
		if r == name {
			return true
		}
	}
	return false
}

// Env carries the numeric configuration and variable bindings through
// evaluation. An Env is not safe for concurrent Bind calls; give each
// goroutine its own.
type Env struct {
	cfg  Config
	ctx  *apd.Context
	vars map[string]*apd.Decimal
}

// NewEnv builds an evaluation environment. Zero fields fall back to
// DefaultConfig and an unknown rounding name means half_even.
func NewEnv(cfg Config) *Env {
	def := DefaultConfig()
	if cfg.Precision == 0 {
		cfg.Precision = def.Precision
	}
	if !ValidRounding(cfg.Rounding) {
		cfg.Rounding = def.Rounding
	}
	ctx := apd.BaseContext.WithPrecision(cfg.Precision)
	switch cfg.Rounding {
	case "half_up":
		ctx.Rounding = apd.RoundHalfUp
	case "half_down":
		ctx.Rounding = apd.RoundHalfDown
	case "up":
		ctx.Rounding = apd.RoundUp
	case "down":
		ctx.Rounding = apd.RoundDown
	case "ceiling":
		ctx.Rounding = apd.RoundCeiling
	case "floor":
		ctx.Rounding = apd.RoundFloor
	default:
		ctx.Rounding = apd.RoundHalfEven
	}
	return &Env{cfg: cfg, ctx: ctx, vars: map[string]*apd.Decimal{}}
}

func (e *Env) Config() Config { return e.cfg }

// Context returns the apd context used for every rounded operation.
func (e *Env) Context() *apd.Context { return e.ctx }

// Bind sets the value of a variable and returns e.
func (e *Env) Bind(name string, v *apd.Decimal) *Env {
	e.vars[name] = v
	return e
}

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (*apd.Decimal, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// guardDigits is the extra precision carried into a logarithm so that
// its argument does not arrive already rounded.
const guardDigits = 8

// guarded returns e with guardDigits more precision. Bindings are shared.
func (e *Env) guarded() *Env {
	return &Env{cfg: e.cfg, ctx: e.ctx.WithPrecision(e.ctx.Precision + guardDigits), vars: e.vars}
}

// Unbound returns a copy of e without variable bindings.
func (e *Env) Unbound() *Env {
	return &Env{cfg: e.cfg, ctx: e.ctx, vars: map[string]*apd.Decimal{}}
}
