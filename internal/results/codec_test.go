package results

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_IntegerIDs(t *testing.T) {
	// Given: a payload with integer ids
	payload := `{"results": [
		{"id": 1, "type": "ContainerResult", "children": [2, 3]},
		{"id": 2, "type": "FigureResult", "children": []},
		{"id": 3, "type": "TableResult", "children": []}
	], "root_result": 1}`

	// When: decoding and indexing
	set, err := Decode(strings.NewReader(payload))
	require.NoError(t, err)
	tree, err := Index(set)
	require.NoError(t, err)

	// Then: ids are normalised to strings
	assert.Equal(t, ID("1"), set.RootResult)
	require.Len(t, tree.RootChildren, 2)
	assert.Equal(t, ID("2"), tree.RootChildren[0].ID)
	assert.Equal(t, ID("3"), tree.RootChildren[1].ID)
}

func TestDecode_MissingRootScenario(t *testing.T) {
	payload := `{"results": [{"id": 1, "type": "ContainerResult", "children": []}], "root_result": 99}`

	set, err := Decode(strings.NewReader(payload))
	require.NoError(t, err)

	_, err = Index(set)
	assert.ErrorIs(t, err, ErrMissingNode)
}

func TestDecode_ScriptPayload(t *testing.T) {
	payload := `var ANALYSIS_RESULTS = {"results": [{"id": "root", "name": "Root result", "type": "ContainerResult", "data": {}, "labels": [], "children": []}], "root_result": "root"};`

	set, err := Decode(strings.NewReader(payload))

	require.NoError(t, err)
	assert.Equal(t, ID("root"), set.RootResult)
	assert.Equal(t, "Root result", set.Results[0].Name)
}

func TestDecode_TableAndLabels(t *testing.T) {
	payload := `{"results": [{
		"id": "root.chi", "name": "Chi square", "type": "TableResult",
		"data": {"headings": ["Nombre", "Valor"], "rows": [["p", "0.0100"]], "pre": "", "post": "N = 10"},
		"labels": [["green", "Significativo"], {"color": "red", "text": "Too small"}],
		"children": []
	}], "root_result": "root.chi"}`

	set, err := Decode(strings.NewReader(payload))
	require.NoError(t, err)

	n := set.Results[0]
	assert.Equal(t, []string{"Nombre", "Valor"}, n.Data.Headings)
	assert.Equal(t, [][]string{{"p", "0.0100"}}, n.Data.Rows)
	assert.Equal(t, "N = 10", n.Data.Post)
	assert.Equal(t, []Label{{Color: "green", Text: "Significativo"}, {Color: "red", Text: "Too small"}}, n.Labels)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "hello"},
		{"bad id", `{"results": [{"id": true}], "root_result": "x"}`},
		{"bad label", `{"results": [{"id": "a", "labels": [["one"]]}], "root_result": "a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestEncode_WritesEmptyArrays(t *testing.T) {
	set := ResultSet{
		Results:    []ResultNode{{ID: "root", Type: TypeContainer}},
		RootResult: "root",
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, set))

	out := buf.String()
	assert.Contains(t, out, `"children": []`)
	assert.Contains(t, out, `"labels": []`)
	assert.Contains(t, out, `"root_result": "root"`)
}

func TestEncodeScript_RoundTripsThroughDecode(t *testing.T) {
	set := sampleSet()
	set.Results[1].Labels = []Label{{Color: "green", Text: "ok"}}

	var buf bytes.Buffer
	require.NoError(t, EncodeScript(&buf, set))
	assert.True(t, strings.HasPrefix(buf.String(), "var ANALYSIS_RESULTS = "))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, set.RootResult, decoded.RootResult)
	assert.Equal(t, set.Results[1].Labels, decoded.Results[1].Labels)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSet()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	set, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, set.Results, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
