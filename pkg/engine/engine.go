package engine

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/interval"
	"github.com/wildfunctions/algebra/pkg/parse"
	"github.com/wildfunctions/algebra/pkg/pool"
	"github.com/wildfunctions/algebra/pkg/simplify"
	"github.com/wildfunctions/algebra/pkg/solve"
)

// Engine runs algebra requests with one configuration. It holds no
// mutable state, so its methods may be called concurrently.
type Engine struct {
	cfg      Config
	num      expr.Config
	simp     *simplify.Simplifier
	bindings map[string]*apd.Decimal
}

// New creates a new engine from the given config.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	num, err := cfg.numeric()
	if err != nil {
		return nil, err
	}
	bindings := map[string]*apd.Decimal{}
	for name, text := range cfg.Bindings {
		v, err := decimal.Parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "binding %s=%s", name, text)
		}
		bindings[name] = v
	}
	var trace *log.Logger
	if cfg.Trace {
		trace = log.New(os.Stderr, "simplify: ", 0)
	}
	return &Engine{cfg: cfg, num: num, simp: simplify.New(trace), bindings: bindings}, nil
}

// WithTraceOutput returns a copy of e that writes the simplification
// trace to w. e itself is left unchanged.
func (e *Engine) WithTraceOutput(w io.Writer) *Engine {
	c := *e
	c.simp = simplify.New(log.New(w, "simplify: ", 0))
	return &c
}

// env returns a fresh environment with the configured bindings.
func (e *Engine) env() *expr.Env {
	env := expr.NewEnv(e.num)
	for name, v := range e.bindings {
		env.Bind(name, v)
	}
	return env
}

func (e *Engine) parse(src string) (*expr.Expression, error) {
	return parse.ParseMode(src, e.num.Mode)
}

// Evaluate computes the numeric value of src. In fraction mode a
// rational value is given as a reduced fraction and an irrational
// product keeps its symbolic part, as in 6π.
func (e *Engine) Evaluate(src string) Result {
	r := Result{Input: src, Operation: "eval"}
	n, err := e.parse(src)
	if err != nil {
		return r.fail(err)
	}
	env := e.env()
	v, err := n.Eval(env)
	if err != nil {
		return r.fail(err)
	}
	if e.num.Mode == expr.Fractional {
		if f, ok := exact(env, n); ok {
			return r.ok(f.String(), f.LaTeX())
		}
	}
	s := decimal.Format(v)
	return r.ok(s, s)
}

// exact folds a scalar expression without rounding.
func exact(env *expr.Env, n *expr.Expression) (expr.Factor, bool) {
	var c expr.Component = n
	if ts := n.Terms(); len(ts) == 1 {
		c = ts[0]
	}
	return expr.FoldScalar(env, c)
}

// Simplify rewrites src to its simplified form.
func (e *Engine) Simplify(src string) Result {
	r := Result{Input: src, Operation: "simplify"}
	n, err := e.parse(src)
	if err != nil {
		return r.fail(err)
	}
	s := e.simp.Simplify(e.env(), n)
	r.Before, r.After = measure(n), measure(s)
	return r.ok(s.String(), s.LaTeX())
}

// Derive differentiates src and simplifies the result. src is either a
// request D[f,x] or an expression derived by the configured variable.
func (e *Engine) Derive(src string) Result {
	r := Result{Input: src, Operation: "derive"}
	var n *expr.Expression
	var v string
	var err error
	if parse.IsDerivative(src) {
		n, v, err = parse.ParseDerivative(src, e.num.Mode)
	} else {
		n, err = e.parse(src)
		if err == nil {
			v, err = e.variable(n)
		}
	}
	if err != nil {
		return r.fail(err)
	}
	d, err := n.Derive(v)
	if err != nil {
		return r.fail(err)
	}
	s := e.simp.Simplify(e.env(), d)
	r.Before, r.After = measure(d), measure(s)
	return r.ok(s.String(), s.LaTeX())
}

// Solve resolves the equation or inequality src.
func (e *Engine) Solve(src string) Result {
	r := Result{Input: src, Operation: "solve"}
	eq, err := parse.ParseEquation(src, e.num.Mode)
	if err != nil {
		return r.fail(err)
	}
	v, err := e.variable(expr.Sub(eq.Left, eq.Right))
	if err != nil {
		return r.fail(err)
	}
	sol, err := solve.Resolve(e.env().Unbound(), eq, v)
	if err != nil {
		return r.fail(err)
	}
	return r.interval(sol)
}

// Domain computes where src is defined.
func (e *Engine) Domain(src string) Result {
	r := Result{Input: src, Operation: "domain"}
	n, err := e.parse(src)
	if err != nil {
		return r.fail(err)
	}
	v, err := e.variable(n)
	if err != nil {
		return r.fail(err)
	}
	d, err := solve.Domain(e.env().Unbound(), n, v)
	if err != nil {
		return r.fail(err)
	}
	return r.interval(d)
}

// Run dispatches src on the configured operation. In auto mode a
// derivative request is derived, an equation is solved, an expression
// whose variables are all bound is evaluated and anything else is
// simplified.
func (e *Engine) Run(src string) Result {
	switch e.cfg.Operation {
	case "eval":
		return e.Evaluate(src)
	case "simplify":
		return e.Simplify(src)
	case "derive":
		return e.Derive(src)
	case "solve":
		return e.Solve(src)
	case "domain":
		return e.Domain(src)
	}
	switch {
	case parse.IsDerivative(src):
		return e.Derive(src)
	case parse.HasRelation(src):
		return e.Solve(src)
	}
	n, err := e.parse(src)
	if err != nil {
		return Result{Input: src, Operation: "auto"}.fail(err)
	}
	for _, v := range variables(n) {
		if _, ok := e.bindings[v]; !ok {
			return e.Simplify(src)
		}
	}
	return e.Evaluate(src)
}

// Batch runs every input on a pool of workers. Results keep the order of
// inputs.
func (e *Engine) Batch(inputs []string) []Result {
	n := len(inputs)
	results := make([]Result, n)

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if e.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Running %d inputs, operation %s, mode %s, workers %d\n",
			n, e.cfg.Operation, e.num.Mode, workers)
	}

	type job struct {
		idx int
		src string
	}

	jobs := make(chan job, n)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = e.Run(j.src)
			}
		}()
	}

	for i, src := range inputs {
		jobs <- job{idx: i, src: src}
	}
	close(jobs)
	wg.Wait()

	if e.cfg.Verbose {
		failed, before, after := 0, 0, 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
			if r.Before != nil {
				before += r.Before.Nodes
				after += r.After.Nodes
			}
		}
		fmt.Fprintf(os.Stderr, "Done: %d ok, %d failed\n", n-failed, failed)
		if before > 0 {
			fmt.Fprintf(os.Stderr, "Rewritten trees: %d nodes down to %d\n", before, after)
		}
	}
	return results
}

// Generate returns n random expressions from the configured pool.
func (e *Engine) Generate(n int) ([]string, error) {
	p, err := pool.Get(e.cfg.Pool)
	if err != nil {
		return nil, err
	}
	seed := e.cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]string, n)
	for i := range out {
		out[i] = p.RandomTree(rng, e.cfg.MaxDepth).String()
	}
	return out, nil
}

// variable returns the configured variable, or the only variable of c.
func (e *Engine) variable(c expr.Component) (string, error) {
	if e.cfg.Variable != "" {
		return e.cfg.Variable, nil
	}
	vs := variables(c)
	switch len(vs) {
	case 0:
		return "", errors.Wrapf(expr.ErrUnsupported, "%s has no variable", c)
	case 1:
		return vs[0], nil
	}
	return "", errors.Wrapf(expr.ErrUnsupported, "%s has several variables (%s); choose one", c, strings.Join(vs, ", "))
}

// variables returns the sorted variable names of c.
func variables(c expr.Component) []string {
	seen := map[string]bool{}
	expr.Walk(c, func(n expr.Component) bool {
		if v, ok := n.(*expr.Variable); ok {
			seen[v.Name()] = true
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (r Result) interval(i interval.Interval) Result {
	return r.ok(i.String(), i.LaTeX())
}
