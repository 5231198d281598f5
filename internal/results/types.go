package results

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a result node. Payloads may carry ids as JSON strings or
// integers; both decode to the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("result id must be a string or number: %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

// Type is the result type tag carried by every node.
type Type string

// Known result types. Other values are allowed and rendered without an icon
// unless a fallback is configured.
const (
	TypeFigure    Type = "FigureResult"
	TypeTable     Type = "TableResult"
	TypeContainer Type = "ContainerResult"
)

// IsContainer reports whether nodes of this type hold other results.
func (t Type) IsContainer() bool {
	return t == TypeContainer
}

// Known reports whether t is one of the built-in result types.
func (t Type) Known() bool {
	switch t {
	case TypeFigure, TypeTable, TypeContainer:
		return true
	default:
		return false
	}
}

// Label is a colored badge attached to a result (e.g. "significant").
// It is written as a two element array [color, text] and read from either
// that form or an object with color and text keys.
type Label struct {
	Color string
	Text  string
}

// MarshalJSON writes the label as [color, text].
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{l.Color, l.Text})
}

// UnmarshalJSON reads [color, text] or {"color": ..., "text": ...}.
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var pair []string
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("label must have 2 elements, got %d", len(pair))
		}
		l.Color, l.Text = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Color string `json:"color"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	l.Color, l.Text = obj.Color, obj.Text
	return nil
}

// Data holds the type-specific payload of a result.
// Figures use Filename; tables use Headings, Rows, Pre and Post.
type Data struct {
	Filename string     `json:"filename,omitempty"`
	Headings []string   `json:"headings,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
	Pre      string     `json:"pre,omitempty"`
	Post     string     `json:"post,omitempty"`
}

// ResultNode is one entry of the result tree.
type ResultNode struct {
	ID       ID      `json:"id"`
	Name     string  `json:"name,omitempty"`
	Type     Type    `json:"type"`
	Data     Data    `json:"data"`
	Labels   []Label `json:"labels"`
	Children []ID    `json:"children"`
}

// IsLeaf reports whether the node has no children.
func (n *ResultNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// DisplayName returns the name, or the id when the node has none.
func (n *ResultNode) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return string(n.ID)
}

// ResultSet is the full payload: every node plus the designated root.
type ResultSet struct {
	Results    []ResultNode `json:"results"`
	RootResult ID           `json:"root_result"`
}
