package progress

import "errors"

// Common progress service errors
var (
	// ErrNotOwned indicates the caller is neither the owner of the progress
	// record nor an administrator.
	ErrNotOwned = errors.New("you have no privileges to perform this action")
)
