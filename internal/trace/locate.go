package trace

import (
	"errors"
	"fmt"
	"runtime"

	"fortio.org/safecast"
)

// ErrNoCaller is returned when no frame exists at the requested depth.
var ErrNoCaller = errors.New("trace: no caller frame")

// Location is a call site: the source unit (file path) and its 1-based line.
type Location struct {
	Unit string
	Line uint32
}

// String formats the location as unit:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.Unit, l.Line)
}

// Locator resolves the call site skip frames above the function calling Locate.
// skip=0 is the caller of Locate itself.
type Locator interface {
	Locate(skip int) (Location, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(skip int) (Location, error)

// Locate calls f(skip).
func (f LocatorFunc) Locate(skip int) (Location, error) { return f(skip) }

// RuntimeLocator reads call sites from the live goroutine stack.
type RuntimeLocator struct{}

// Locate uses runtime.Caller.
func (RuntimeLocator) Locate(skip int) (Location, error) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}, ErrNoCaller
	}
	l, err := safecast.Conv[uint32](line)
	if err != nil {
		return Location{}, fmt.Errorf("line number overflow: %w", err)
	}
	return Location{Unit: file, Line: l}, nil
}
