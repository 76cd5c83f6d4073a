package usecase

import "fmt"

// ErrPersistence marks a backing-store failure inside a use case (the
// transport class of the error taxonomy). Callers log it and surface a
// generic failure; it is never retried automatically.
var ErrPersistence = fmt.Errorf("pulse use case persistence error")
