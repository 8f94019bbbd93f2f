package repository

import "errors"

// errNoRow aborts a transaction whose target row does not exist. It is
// translated into a false "found" result before leaving this package and
// is never returned to callers.
var errNoRow = errors.New("no row")
