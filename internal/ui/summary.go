package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/prettyresults/prettyresults/internal/results"
)

// Summary describes an indexed result set.
type Summary struct {
	Root        string         `json:"root"`
	Nodes       int            `json:"nodes"`
	ByType      map[string]int `json:"by_type"`
	MaxDepth    int            `json:"max_depth"`
	Figures     []string       `json:"figures,omitempty"`
	Unreachable []string       `json:"unreachable,omitempty"`
	Problems    []string       `json:"problems,omitempty"`
}

// Valid reports whether no problems were found.
func (s Summary) Valid() bool {
	return len(s.Problems) == 0
}

// Summarize collects counts and integrity problems for tree.
func Summarize(tree *results.Tree) Summary {
	s := Summary{
		Root:   string(tree.Root.ID),
		Nodes:  tree.Len(),
		ByType: make(map[string]int),
	}
	for _, n := range tree.Nodes() {
		s.ByType[string(n.Type)]++
		if n.Data.Filename != "" {
			s.Figures = append(s.Figures, n.Data.Filename)
		}
	}

	if err := tree.Validate(); err != nil {
		s.Problems = append(s.Problems, splitJoined(err)...)
		return s
	}

	_ = tree.Walk(func(_ *results.ResultNode, depth int) error {
		s.MaxDepth = max(s.MaxDepth, depth)
		return nil
	})
	for _, n := range tree.Unreachable() {
		s.Unreachable = append(s.Unreachable, string(n.ID))
	}
	return s
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range j.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// SummaryRenderer displays a Summary.
type SummaryRenderer struct {
	out    io.Writer
	styles Styles
}

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(out io.Writer, noColor bool) *SummaryRenderer {
	return &SummaryRenderer{out: out, styles: GetStyles(noColor)}
}

// Render writes s for humans.
func (r *SummaryRenderer) Render(s Summary) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Result tree: "+s.Root))
	_, _ = fmt.Fprintf(r.out, "  Results:   %d\n", s.Nodes)

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		_, _ = fmt.Fprintf(r.out, "    %-16s %d\n", t, s.ByType[t])
	}
	_, _ = fmt.Fprintf(r.out, "  Depth:     %d\n", s.MaxDepth)
	_, _ = fmt.Fprintf(r.out, "  Figures:   %d\n", len(s.Figures))

	if len(s.Unreachable) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, r.styles.Warning.Render(fmt.Sprintf("⚠ %d results not reachable from the root", len(s.Unreachable))))
		for _, id := range s.Unreachable {
			_, _ = fmt.Fprintf(r.out, "    %s\n", id)
		}
	}

	_, _ = fmt.Fprintln(r.out)
	if s.Valid() {
		_, _ = fmt.Fprintln(r.out, r.styles.Success.Render("✓ valid"))
		return nil
	}
	for _, p := range s.Problems {
		_, _ = fmt.Fprintln(r.out, r.styles.Error.Render("✗ "+p))
	}
	return nil
}

// RenderJSON writes s as indented JSON.
func (r *SummaryRenderer) RenderJSON(s Summary) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
