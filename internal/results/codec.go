package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ScriptVariable is the global the web page reads the payload from.
const ScriptVariable = "ANALYSIS_RESULTS"

// scriptPrefix starts a result_data.js payload.
const scriptPrefix = "var " + ScriptVariable + " ="

// Decode reads a result set from r. It accepts plain JSON and the
// "var ANALYSIS_RESULTS = {...}" script written next to the web page.
func Decode(r io.Reader) (ResultSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ResultSet{}, fmt.Errorf("read result set: %w", err)
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte(scriptPrefix)) {
		data = bytes.TrimSpace(data[len(scriptPrefix):])
		data = bytes.TrimSuffix(data, []byte(";"))
	}

	var set ResultSet
	if err := json.Unmarshal(data, &set); err != nil {
		return ResultSet{}, fmt.Errorf("parse result set: %w", err)
	}
	return set, nil
}

// ReadFile decodes the result set stored at path.
func ReadFile(path string) (ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return ResultSet{}, err
	}
	defer f.Close()

	set, err := Decode(f)
	if err != nil {
		return ResultSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Encode writes set as indented JSON. Nil children and label lists are
// written as empty arrays.
func Encode(w io.Writer, set ResultSet) error {
	out := ResultSet{
		Results:    make([]ResultNode, len(set.Results)),
		RootResult: set.RootResult,
	}
	for i, n := range set.Results {
		if n.Children == nil {
			n.Children = []ID{}
		}
		if n.Labels == nil {
			n.Labels = []Label{}
		}
		out.Results[i] = n
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

// EncodeScript writes set as a result_data.js payload.
func EncodeScript(w io.Writer, set ResultSet) error {
	if _, err := io.WriteString(w, scriptPrefix+" "); err != nil {
		return err
	}
	return Encode(w, set)
}
