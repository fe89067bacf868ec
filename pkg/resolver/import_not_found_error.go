package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrImportNotFound is wrapped by the error of an ImportResult whose import
// could not be resolved.
var ErrImportNotFound = errors.New("import not found")

// ImportNotFoundError carries the failed result.
type ImportNotFoundError struct {
	Result *ImportResult
}

func (e *ImportNotFoundError) Error() string {
	msg := fmt.Sprintf("import %q not found", e.Result.ImportName)
	if len(e.Result.ImportFailureInfo) > 0 {
		msg += ": " + strings.Join(e.Result.ImportFailureInfo, "; ")
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrImportNotFound) true.
func (e *ImportNotFoundError) Unwrap() error {
	return ErrImportNotFound
}
