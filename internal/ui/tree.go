package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
)

// TreePrinter writes a result tree as an indented outline.
//
// Containers within MaxDepth are printed expanded with their open icon;
// containers cut off by the depth limit are printed with their closed icon
// and a child count.
type TreePrinter struct {
	Icons  icons.Set
	Styles Styles

	// MaxDepth limits how many levels below the root are expanded.
	// Zero means no limit.
	MaxDepth int

	// ShowIDs appends each node's qualified id.
	ShowIDs bool
}

// NewTreePrinter returns a printer using set for icons.
func NewTreePrinter(set icons.Set, noColor bool) *TreePrinter {
	return &TreePrinter{Icons: set, Styles: GetStyles(noColor)}
}

// Print writes the tree rooted at tree.Root to w.
func (p *TreePrinter) Print(w io.Writer, tree *results.Tree) error {
	return p.PrintFrom(w, tree, tree.Root)
}

// PrintFrom writes the subtree rooted at start to w.
func (p *TreePrinter) PrintFrom(w io.Writer, tree *results.Tree, start *results.ResultNode) error {
	onPath := make(map[results.ID]bool)

	var visit func(n *results.ResultNode, prefix string, connector string, depth int) error
	visit = func(n *results.ResultNode, prefix, connector string, depth int) error {
		if onPath[n.ID] {
			return &results.CycleError{Path: []results.ID{n.ID}}
		}

		expand := !n.IsLeaf() && (p.MaxDepth == 0 || depth < p.MaxDepth)
		if _, err := fmt.Fprintln(w, prefix+connector+p.line(n, expand)); err != nil {
			return err
		}
		if !expand {
			return nil
		}

		children, err := tree.Children(n)
		if err != nil {
			return err
		}

		childPrefix := prefix
		switch connector {
		case "├── ":
			childPrefix += p.Styles.Border.Render("│") + "   "
		case "└── ":
			childPrefix += "    "
		}

		onPath[n.ID] = true
		for i, child := range children {
			c := "├── "
			if i == len(children)-1 {
				c = "└── "
			}
			if err := visit(child, childPrefix, c, depth+1); err != nil {
				return err
			}
		}
		delete(onPath, n.ID)
		return nil
	}

	return visit(start, "", "", 0)
}

// line renders one node without tree connectors.
func (p *TreePrinter) line(n *results.ResultNode, open bool) string {
	return renderNode(p.Styles, p.Icons, n, open, p.ShowIDs)
}

func renderNode(s Styles, set icons.Set, n *results.ResultNode, open, showID bool) string {
	var b strings.Builder
	b.WriteString(s.Icon.Render(Glyph(set.IconFor(n.Type, open))))
	b.WriteByte(' ')

	if n.Type.IsContainer() {
		b.WriteString(s.Container.Render(n.DisplayName()))
	} else {
		b.WriteString(s.Leaf.Render(n.DisplayName()))
	}

	for _, l := range n.Labels {
		b.WriteByte(' ')
		b.WriteString(s.Badge(l.Color, l.Text))
	}

	if !open && len(n.Children) > 0 {
		b.WriteString(s.Dim.Render(fmt.Sprintf(" (%d)", len(n.Children))))
	}
	if showID {
		b.WriteString(s.ID.Render(" " + string(n.ID)))
	}
	return b.String()
}
