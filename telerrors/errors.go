package telerrors

import "errors"

// ErrNilError reports that a nil Error was dereferenced. It is used as a
// safety measure to prevent nil pointer dereference.
var ErrNilError = errors.New("nil error dereferenced")

// ErrNoMatch reports that a typed handler does not apply to the current
// update. The observer treats it as a skip and tries the next handler.
var ErrNoMatch = errors.New("handler does not match the update")
