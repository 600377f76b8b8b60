package organize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks invalid run configuration: bad source path,
	// bad output root, malformed globs. Surfaced before any work starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks inputs that fail stage preconditions.
	ErrValidation = errors.New("validation error")
	// ErrFatal marks failures that will recur for every remaining entry,
	// such as a full destination filesystem. The executor aborts the batch.
	ErrFatal = errors.New("fatal error")
	// ErrTransient marks per-entry failures that are counted and skipped
	// unless fail-fast is configured.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error that carries stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should abort the remaining batch even when
// fail-fast is off.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
