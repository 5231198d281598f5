// Package manager builds result trees and persists them to a results
// directory.
//
// A results directory holds data.json plus one image file per figure:
//
//	m, err := manager.Open("out/results")
//	desc, _ := m.Root().AddContainer("desc", "Descriptives")
//	_, _ = desc.AddKeyValueTable("n", "Sample", [][]string{{"N", "120"}})
//	err = m.Dump()
//
// Opening an existing directory loads its results, so an analysis can be
// re-run piecemeal: re-added results replace their old data but keep the
// children they already had.
package manager

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/results"
)

const (
	// DataFileName is the result payload inside a results directory.
	DataFileName = "data.json"

	// RootID is the id of the root container.
	RootID results.ID = "root"

	// RootName is the display name of a freshly created root.
	RootName = "Root result"
)

// Manager owns the results of one results directory. It is safe for
// concurrent use.
type Manager struct {
	dir     string
	tempDir bool
	logger  *slog.Logger
	lock    *FileLock

	// dumpMu serializes Dump so a snapshot is never renamed over a newer one.
	dumpMu sync.Mutex

	mu    sync.RWMutex
	nodes map[results.ID]*results.ResultNode
	order []results.ID
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Open creates dir if needed and loads its data.json. A missing or
// undecodable data.json starts an empty tree. An empty dir creates a
// temporary directory that Close removes.
//
// The root container always exists after Open.
func Open(dir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		logger: slog.New(slog.DiscardHandler),
		nodes:  make(map[results.ID]*results.ResultNode),
	}
	for _, opt := range opts {
		opt(m)
	}

	if dir == "" {
		tmp, err := os.MkdirTemp("", "prettyresults-*")
		if err != nil {
			return nil, prerrors.IOError("failed to create temporary results directory", err)
		}
		dir, m.tempDir = tmp, true
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, prerrors.New(prerrors.ErrCodeFilePermission, "failed to create results directory", err).
			WithDetail("path", dir)
	}
	m.dir = dir
	m.lock = NewFileLock(dir)

	m.load()
	m.put(&results.ResultNode{ID: RootID, Name: RootName, Type: results.TypeContainer})

	return m, nil
}

// load reads data.json, ignoring absence and decode failures.
func (m *Manager) load() {
	set, err := results.ReadFile(m.DataPath())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return
	case err != nil:
		m.logger.Warn("ignoring unreadable results file",
			slog.String("path", m.DataPath()),
			slog.String("error", err.Error()))
		return
	}

	for i := range set.Results {
		n := set.Results[i]
		normalize(&n)
		if _, dup := m.nodes[n.ID]; !dup {
			m.order = append(m.order, n.ID)
		}
		m.nodes[n.ID] = &n
	}
	m.logger.Debug("loaded results",
		slog.String("path", m.DataPath()),
		slog.Int("count", len(m.order)))
}

// Dir returns the results directory.
func (m *Manager) Dir() string {
	return m.dir
}

// DataPath returns the path of data.json.
func (m *Manager) DataPath() string {
	return filepath.Join(m.dir, DataFileName)
}

// Root returns the root container.
func (m *Manager) Root() *Container {
	return &Container{Result{m: m, id: RootID}}
}

// Get returns a copy of the result with the given qualified id.
func (m *Manager) Get(id results.ID) (results.ResultNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return results.ResultNode{}, false
	}
	return cloneNode(n), true
}

// Container returns a handle to an existing container.
func (m *Manager) Container(id results.ID) (*Container, error) {
	n, ok := m.Get(id)
	if !ok {
		return nil, prerrors.New(prerrors.ErrCodeMissingNode, fmt.Sprintf("result %q not found", id), nil)
	}
	if !n.Type.IsContainer() {
		return nil, prerrors.ValidationError(fmt.Sprintf("result %q is a %s, not a container", id, n.Type), nil)
	}
	return &Container{Result{m: m, id: id}}, nil
}

// Len returns the number of results, root included.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// ResultSet returns every result in insertion order with root_result set
// to the root container. The set shares no memory with the manager.
func (m *Manager) ResultSet() results.ResultSet {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := results.ResultSet{
		Results:    make([]results.ResultNode, 0, len(m.order)),
		RootResult: RootID,
	}
	for _, id := range m.order {
		set.Results = append(set.Results, cloneNode(m.nodes[id]))
	}
	return set
}

// Dump writes data.json atomically while holding the directory lock.
// Concurrent calls run one at a time, each writing a snapshot taken after
// the previous one finished.
func (m *Manager) Dump() error {
	m.dumpMu.Lock()
	defer m.dumpMu.Unlock()

	if err := m.lock.Lock(); err != nil {
		return prerrors.New(prerrors.ErrCodeResultsLocked, "failed to lock results directory", err).
			WithDetail("path", m.lock.Path())
	}
	defer func() { _ = m.lock.Unlock() }()

	var buf bytes.Buffer
	if err := results.Encode(&buf, m.ResultSet()); err != nil {
		return prerrors.InternalError("failed to encode results", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".data-*.json")
	if err != nil {
		return prerrors.New(prerrors.ErrCodeFilePermission, "failed to write results", err).
			WithDetail("path", m.dir)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return prerrors.IOError("failed to write results", err)
	}
	if err := tmp.Close(); err != nil {
		return prerrors.IOError("failed to write results", err)
	}
	if err := os.Rename(tmpPath, m.DataPath()); err != nil {
		return prerrors.IOError("failed to replace results file", err).WithDetail("path", m.DataPath())
	}

	m.logger.Info("results written",
		slog.String("path", m.DataPath()),
		slog.Int("count", m.Len()))
	return nil
}

// Close removes the results directory if Open created it as a temporary
// directory.
func (m *Manager) Close() error {
	if !m.tempDir {
		return nil
	}
	return os.RemoveAll(m.dir)
}

// ContainerSpec describes a container skeleton for CreateContainers.
type ContainerSpec struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Children []ContainerSpec `yaml:"children"`
}

// CreateContainers adds the nested containers described by specs under
// the root.
func (m *Manager) CreateContainers(specs []ContainerSpec) error {
	return m.Root().createContainers(specs)
}

func (c *Container) createContainers(specs []ContainerSpec) error {
	for _, spec := range specs {
		child, err := c.AddContainer(spec.ID, spec.Name)
		if err != nil {
			return err
		}
		if err := child.createContainers(spec.Children); err != nil {
			return err
		}
	}
	return nil
}

// put stores n. An existing result with the same id keeps its position
// and its children.
func (m *Manager) put(n *results.ResultNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(n)
}

func (m *Manager) putLocked(n *results.ResultNode) {
	normalize(n)
	if old, ok := m.nodes[n.ID]; ok {
		n.Children = old.Children
	} else {
		m.order = append(m.order, n.ID)
	}
	m.nodes[n.ID] = n
}

// normalize gives n empty rather than nil lists, matching what data.json
// round-trips to.
func normalize(n *results.ResultNode) {
	if n.Labels == nil {
		n.Labels = []results.Label{}
	}
	if n.Children == nil {
		n.Children = []results.ID{}
	}
}

// cloneNode deep-copies n so callers cannot mutate manager state.
func cloneNode(n *results.ResultNode) results.ResultNode {
	out := *n
	out.Labels = slices.Clone(n.Labels)
	out.Children = slices.Clone(n.Children)
	out.Data.Headings = slices.Clone(n.Data.Headings)
	if n.Data.Rows != nil {
		out.Data.Rows = make([][]string, len(n.Data.Rows))
		for i, r := range n.Data.Rows {
			out.Data.Rows[i] = slices.Clone(r)
		}
	}
	return out
}
