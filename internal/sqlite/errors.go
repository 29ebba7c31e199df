package sqlite

import "errors"

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("layout database is already attached")
	ErrGroupCycle      = errors.New("group would contain itself")
	ErrDuplicateName   = errors.New("instance name already used in cell view")
)
