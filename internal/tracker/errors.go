package tracker

import "errors"

var (
	// ErrCapacityExceeded indicates the registry is at its project limit.
	ErrCapacityExceeded = errors.New("project capacity exceeded")
	// ErrDuplicateTag indicates the tag is already bound to a project.
	ErrDuplicateTag = errors.New("tag already registered")
	// ErrTagNotFound indicates no project is bound to the tag.
	ErrTagNotFound = errors.New("tag not found")
	// ErrAdminTagReserved indicates an attempt to register the admin tag.
	ErrAdminTagReserved = errors.New("admin tag is reserved")
)
