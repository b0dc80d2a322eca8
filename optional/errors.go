package optional

import "errors"

// ErrBadAccess is the panic value for Value/Ptr calls on an empty optional.
// It marks a caller logic error, not a recoverable condition.
var ErrBadAccess = errors.New("optional: value access on empty optional")
