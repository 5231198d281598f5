package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/results"
)

// DefaultFigureFormat is the file extension used when WithFormat is not given.
const DefaultFigureFormat = "jpg"

// KeyValueHeadings are the headings of tables built by AddKeyValueTable.
var KeyValueHeadings = []string{"Nombre", "Valor"}

// Result is a handle to a result owned by a Manager.
type Result struct {
	m  *Manager
	id results.ID
}

// ID returns the qualified id.
func (r *Result) ID() results.ID {
	return r.id
}

// Node returns a copy of the current result.
func (r *Result) Node() results.ResultNode {
	n, _ := r.m.Get(r.id)
	return n
}

// SetLabels replaces the result's labels.
func (r *Result) SetLabels(labels ...results.Label) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if n, ok := r.m.nodes[r.id]; ok {
		n.Labels = slices.Clone(labels)
	}
}

// AddRow appends a row to a table result.
func (r *Result) AddRow(cells ...string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	n, ok := r.m.nodes[r.id]
	if !ok || n.Type != results.TypeTable {
		return prerrors.ValidationError(fmt.Sprintf("result %q is not a table", r.id), nil)
	}
	if err := checkRow(n.Data.Headings, len(n.Data.Rows), cells); err != nil {
		return err
	}
	n.Data.Rows = append(n.Data.Rows, slices.Clone(cells))
	return nil
}

// Container is a handle to a container result. Its Add methods create
// children with qualified ids "<container id>.<id>".
type Container struct {
	Result
}

type addOptions struct {
	labels []results.Label
	pre    string
	post   string
	format string
}

// AddOption configures a result created by a Container.
type AddOption func(*addOptions)

// WithLabels attaches badges to the result.
func WithLabels(labels ...results.Label) AddOption {
	return func(o *addOptions) {
		o.labels = append(o.labels, labels...)
	}
}

// WithPre sets the text shown before a table.
func WithPre(text string) AddOption {
	return func(o *addOptions) {
		o.pre = text
	}
}

// WithPost sets the text shown after a table.
func WithPost(text string) AddOption {
	return func(o *addOptions) {
		o.post = text
	}
}

// WithFormat sets the image file extension of a figure ("png", "svg").
func WithFormat(ext string) AddOption {
	return func(o *addOptions) {
		o.format = strings.TrimPrefix(ext, ".")
	}
}

func collect(opts []AddOption) addOptions {
	o := addOptions{format: DefaultFigureFormat}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AddContainer creates a child container.
func (c *Container) AddContainer(id, name string, opts ...AddOption) (*Container, error) {
	o := collect(opts)
	n := &results.ResultNode{
		Name:   name,
		Type:   results.TypeContainer,
		Labels: o.labels,
	}
	if err := c.add(id, n); err != nil {
		return nil, err
	}
	return &Container{Result{m: c.m, id: n.ID}}, nil
}

// AddFigure creates a figure result and writes img to
// <results dir>/<qualified id>.<format>. A nil img registers the figure
// without writing, for images already present in the directory.
func (c *Container) AddFigure(id, name string, img []byte, opts ...AddOption) (*Result, error) {
	o := collect(opts)
	qid, err := c.qualify(id)
	if err != nil {
		return nil, err
	}

	filename := string(qid) + "." + o.format
	if img != nil {
		path := filepath.Join(c.m.dir, filename)
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return nil, prerrors.New(prerrors.ErrCodeFilePermission, "failed to write figure", err).
				WithDetail("path", path)
		}
	}

	n := &results.ResultNode{
		Name:   name,
		Type:   results.TypeFigure,
		Labels: o.labels,
		Data:   results.Data{Filename: filename},
	}
	if err := c.add(id, n); err != nil {
		return nil, err
	}
	return &Result{m: c.m, id: n.ID}, nil
}

// AddTable creates a table result. Every row must have one cell per
// heading.
func (c *Container) AddTable(id, name string, headings []string, rows [][]string, opts ...AddOption) (*Result, error) {
	for i, row := range rows {
		if err := checkRow(headings, i, row); err != nil {
			return nil, err
		}
	}

	o := collect(opts)
	data := results.Data{
		Headings: slices.Clone(headings),
		Rows:     make([][]string, 0, len(rows)),
		Pre:      o.pre,
		Post:     o.post,
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, slices.Clone(row))
	}

	n := &results.ResultNode{
		Name:   name,
		Type:   results.TypeTable,
		Labels: o.labels,
		Data:   data,
	}
	if err := c.add(id, n); err != nil {
		return nil, err
	}
	return &Result{m: c.m, id: n.ID}, nil
}

// AddKeyValueTable creates a two-column table of name/value pairs.
func (c *Container) AddKeyValueTable(id, name string, values [][]string, opts ...AddOption) (*Result, error) {
	return c.AddTable(id, name, KeyValueHeadings, values, opts...)
}

// Child returns a copy of the direct child with unqualified id.
func (c *Container) Child(id string) (results.ResultNode, bool) {
	return c.m.Get(c.id + "." + results.ID(id))
}

func (c *Container) qualify(id string) (results.ID, error) {
	if id == "" {
		return "", prerrors.New(prerrors.ErrCodeInvalidID, "result id must not be empty", nil)
	}
	if strings.Contains(id, ".") {
		return "", prerrors.New(prerrors.ErrCodeInvalidID, fmt.Sprintf("result id cannot contain dots: %s", id), nil).
			WithSuggestion("Use nested containers instead of dotted ids")
	}
	return c.id + "." + results.ID(id), nil
}

// add qualifies id, links n under c and stores it.
func (c *Container) add(id string, n *results.ResultNode) error {
	qid, err := c.qualify(id)
	if err != nil {
		return err
	}
	n.ID = qid

	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	parent, ok := c.m.nodes[c.id]
	if !ok {
		return prerrors.New(prerrors.ErrCodeMissingNode, fmt.Sprintf("container %q not found", c.id), nil)
	}
	if !slices.Contains(parent.Children, qid) {
		parent.Children = append(parent.Children, qid)
	}
	c.m.putLocked(n)
	return nil
}

func checkRow(headings []string, index int, row []string) error {
	if len(headings) == 0 || len(row) == len(headings) {
		return nil
	}
	return prerrors.ValidationError(
		fmt.Sprintf("row %d has %d cells, want %d", index, len(row), len(headings)), nil)
}
