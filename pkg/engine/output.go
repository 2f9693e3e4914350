package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Result is the outcome of one request. Before and After measure the
// tree handed to the simplifier and the one it returned.
type Result struct {
	Input     string      `json:"input"`
	Operation string      `json:"operation"`
	Output    string      `json:"output,omitempty"`
	LaTeX     string      `json:"latex,omitempty"`
	Error     string      `json:"error,omitempty"`
	Before    *Complexity `json:"before,omitempty"`
	After     *Complexity `json:"after,omitempty"`
	Err       error       `json:"-"`
}

// Complexity is the size of an expression tree.
type Complexity struct {
	Nodes  int     `json:"nodes"`
	Depth  int     `json:"depth"`
	Weight float64 `json:"weight"`
}

func measure(c expr.Component) *Complexity {
	return &Complexity{Nodes: c.NodeCount(), Depth: c.Depth(), Weight: expr.WeightedComplexity(c)}
}

func (r Result) ok(text, latex string) Result {
	r.Output, r.LaTeX = text, latex
	return r
}

func (r Result) fail(err error) Result {
	r.Err, r.Error = err, err.Error()
	return r
}

// Report is the JSON document written for a batch.
type Report struct {
	Config  Config   `json:"config"`
	Results []Result `json:"results"`
	Failed  int      `json:"failed"`
}

// NewReport collects results under cfg.
func NewReport(cfg Config, results []Result) Report {
	r := Report{Config: cfg, Results: results}
	for _, res := range results {
		if res.Err != nil {
			r.Failed++
		}
	}
	return r
}

// WriteText writes a result in human-readable format.
func WriteText(w io.Writer, r Result, latex bool) {
	if r.Err != nil {
		fmt.Fprintf(w, "%s\terror: %v\n", r.Input, r.Err)
		return
	}
	out := r.Output
	if latex {
		out = r.LaTeX
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", r.Input, r.Operation, out)
}

// WriteTextReport writes every result of a report, one per line.
func WriteTextReport(w io.Writer, r Report) {
	for _, res := range r.Results {
		WriteText(w, res, r.Config.LaTeX)
	}
	if len(r.Results) > 1 {
		fmt.Fprintf(w, "--- %d results, %d failed ---\n", len(r.Results), r.Failed)
	}
}

// WriteJSON writes the report as JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
