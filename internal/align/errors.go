package align

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks every error caused by an unusable comparator set or
// threshold pair.
var ErrConfiguration = errors.New("align configuration error")

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
