package player

import (
	"errors"
	"fmt"
)

// MalformedDatasetError reports a dataset that cannot be turned into records at all.
type MalformedDatasetError struct {
	Reason string
}

func (e *MalformedDatasetError) Error() string {
	return fmt.Sprintf("malformed dataset: %s", e.Reason)
}

// AsMalformedDatasetError unwraps err into a *MalformedDatasetError when possible.
func AsMalformedDatasetError(err error) (*MalformedDatasetError, bool) {
	var target *MalformedDatasetError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
