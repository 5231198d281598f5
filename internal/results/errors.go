package results

import (
	"errors"
	"fmt"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
)

// Sentinel errors for errors.Is checks.
var (
	ErrMissingNode = errors.New("result node not found")
	ErrDuplicateID = errors.New("duplicate result id")
	ErrCycle       = errors.New("result tree contains a cycle")
)

// MissingNodeError reports an id referenced by root_result or a children
// list that is not present in the result set.
type MissingNodeError struct {
	// ID is the id that could not be resolved.
	ID ID
	// Parent is the node that referenced ID. Empty for root_result.
	Parent ID
}

func (e *MissingNodeError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("root result %q not found", e.ID)
	}
	return fmt.Sprintf("result %q referenced by %q not found", e.ID, e.Parent)
}

// Is matches ErrMissingNode.
func (e *MissingNodeError) Is(target error) bool {
	return target == ErrMissingNode
}

// DuplicateIDError reports an id that occurs more than once.
type DuplicateIDError struct {
	ID ID
	// Positions are the indexes of the first and the repeated occurrence.
	First, Second int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("result id %q appears at positions %d and %d", e.ID, e.First, e.Second)
}

// Is matches ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// CycleError reports a node that is its own ancestor.
type CycleError struct {
	Path []ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("result tree cycle: %v", e.Path)
}

// Is matches ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// Report converts an indexing or validation error into a coded error for
// the CLI. Other errors are returned unchanged.
func Report(err error) error {
	if err == nil {
		return nil
	}
	var code, hint string
	switch {
	case errors.Is(err, ErrMissingNode):
		code, hint = prerrors.ErrCodeMissingNode, "Every id in root_result and children must appear in results"
	case errors.Is(err, ErrDuplicateID):
		code, hint = prerrors.ErrCodeDuplicateID, "Result ids must be unique"
	case errors.Is(err, ErrCycle):
		code, hint = prerrors.ErrCodeTreeCycle, "A container cannot contain itself"
	default:
		return err
	}
	return prerrors.New(code, err.Error(), err).WithSuggestion(hint)
}
