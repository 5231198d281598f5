package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Plain errors are reported as internal errors.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var re *ReportError
	if !stderrors.As(err, &re) {
		re = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", re.Message))
	if re.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", re.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", re.Code))

	return sb.String()
}

type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	var re *ReportError
	if !stderrors.As(err, &re) {
		re = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       re.Code,
		Message:    re.Message,
		Category:   string(re.Category),
		Severity:   string(re.Severity),
		Details:    re.Details,
		Suggestion: re.Suggestion,
	}
	if re.Cause != nil {
		je.Cause = re.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	var re *ReportError
	if !stderrors.As(err, &re) {
		return map[string]any{"error": err.Error()}
	}

	attrs := map[string]any{
		"error_code":     re.Code,
		"error_message":  re.Message,
		"error_category": string(re.Category),
	}
	for k, v := range re.Details {
		attrs["detail_"+k] = v
	}
	if re.Cause != nil {
		attrs["cause"] = re.Cause.Error()
	}
	return attrs
}
