package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repository implementations when a record
// does not exist. Backends wrap it with context values.
var ErrNotFound = goerr.New("record not found")
