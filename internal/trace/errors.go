package trace

import (
	"errors"
	"fmt"
)

// LoadError is the panic value of a Print whose calling file could not be
// read. The cursor of that file is left untouched.
type LoadError struct {
	Unit string
	Line uint32
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("trace %s:%d: %v", e.Unit, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Recover stores a *LoadError raised by Print into *errp and re-panics on
// anything else. It must be deferred directly:
//
//	func run(ctx context.Context) (err error) {
//		defer trace.Recover(&err)
//		...
//	}
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		var le *LoadError
		if errors.As(err, &le) {
			*errp = le
			return
		}
	}
	panic(r)
}
