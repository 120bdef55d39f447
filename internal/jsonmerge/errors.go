package jsonmerge

import "errors"

// Sentinel errors for policy decisions. Match them with errors.Is.
var (
	// ErrTemplateUnavailable indicates the template is missing or unreadable.
	// Callers skip the step; it is not fatal to a bootstrap run.
	ErrTemplateUnavailable = errors.New("template unavailable")
	// ErrInvalidTemplateJSON indicates the template is not a JSON object.
	ErrInvalidTemplateJSON = errors.New("template is not a valid JSON object")
	// ErrInvalidTargetJSON indicates an existing target is not a JSON object.
	// The target file is never modified when this is returned.
	ErrInvalidTargetJSON = errors.New("target is not a valid JSON object")
	// ErrMergeProducedInvalidJSON indicates the merged output failed the
	// well-formedness check. The target file is never modified.
	ErrMergeProducedInvalidJSON = errors.New("merge produced invalid JSON")
	// ErrWriteFailure indicates the merged document could not be written.
	ErrWriteFailure = errors.New("write failure")
)

// IsFatal reports whether err should abort a bootstrap run. A nil error and
// an unavailable template are the only non-fatal outcomes.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrTemplateUnavailable)
}
