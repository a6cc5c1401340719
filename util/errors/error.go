package errors

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
)

// MaxStackDepth the maximum number of frames collected when creating a new Error.
var MaxStackDepth = 50

// Error wraps one or more reasons and the callers at the time of creation.
//
// Use it for operational failures (I/O, database, misconfiguration). An address
// that doesn't pass validation is a classification outcome, not an error, and
// must never be reported with this type.
type Error struct {
	reasons      []error
	callers      []uintptr
	callerFrames FrameStack
}

// New create a new `*Error`, collecting the function callers.
//
// If the reason is already an `*Error`, it is returned unchanged. If the reason
// is nil, returns nil. Slices of errors (`[]error`, `[]*Error` or `[]any`) are
// flattened and their nil elements ignored. Any other value is wrapped in a `Reason`.
func New(reason any) error {
	return NewSkip(reason, 3)
}

// NewSkip same as `New` but skips the given amount of frames when collecting
// the callers. A skip of 3 skips `runtime.Callers`, `NewSkip` and its caller.
func NewSkip(reason any, skip int) error {
	if reason == nil {
		return nil
	}
	if r, ok := reason.(*Error); ok {
		return r
	}
	callers := make([]uintptr, MaxStackDepth)
	n := runtime.Callers(skip, callers)

	return &Error{
		reasons: toErr(reason),
		callers: callers[:n],
	}
}

// Errorf is a shortcut for `errors.New(fmt.Errorf("format", args))`.
func Errorf(format string, args ...any) error {
	return NewSkip(fmt.Errorf(format, args...), 3)
}

func toErr(reason any) []error {
	errs := []error{}
	switch r := reason.(type) {
	case error:
		errs = append(errs, r)
	case []error:
		errs = append(errs, lo.Filter(r, func(e error, _ int) bool {
			return e != nil
		})...)
	case []*Error:
		for _, e := range r {
			if e != nil {
				errs = append(errs, e)
			}
		}
	case []any:
		for _, e := range r {
			if e != nil {
				errs = append(errs, toErr(e)...)
			}
		}
	default:
		errs = append(errs, Reason{reason: r})
	}
	return errs
}

func (e *Error) Error() string {
	if len(e.reasons) == 0 {
		return "goyave.dev/emailvalidator/util/errors.Error: no reason"
	}
	return strings.Join(lo.Map(e.reasons, func(r error, _ int) string {
		if r == nil {
			return "<nil>"
		}
		return r.Error()
	}), "\n")
}

// String returns the error message followed by the stack trace.
// Nested `*Error` reasons print their own stack trace.
func (e *Error) String() string {
	if len(e.reasons) == 1 {
		if err, ok := e.reasons[0].(*Error); ok {
			return err.String()
		}
	}
	if len(e.reasons) <= 1 {
		return e.Error() + "\n" + e.StackFrames().String()
	}
	return strings.Join(lo.Map(e.reasons, func(r error, _ int) string {
		if err, ok := r.(*Error); ok {
			return err.String()
		}
		return r.Error() + "\n" + e.StackFrames().String()
	}), "\n\n")
}

// FileLine returns the file path and line at which the error was created.
func (e *Error) FileLine() string {
	frames := e.StackFrames()
	if len(frames) > 0 {
		return fmt.Sprintf("%s:%d", frames[0].File, frames[0].Line)
	}
	return "[unknown file line]"
}

// Unwrap returns the underlying reasons.
func (e *Error) Unwrap() []error {
	return e.reasons
}

// Len returns the number of underlying reasons.
func (e *Error) Len() int {
	return len(e.reasons)
}

// Callers returns the function callers collected when the `Error` was created.
func (e *Error) Callers() []uintptr {
	return e.callers
}

// StackFrames returns the parsed `FrameStack` for this error.
// The frames are computed once and cached.
func (e *Error) StackFrames() FrameStack {
	if e.callerFrames == nil {
		frames := runtime.CallersFrames(e.callers)
		e.callerFrames = make(FrameStack, 0, len(e.callers))
		for {
			frame, more := frames.Next()
			if frame.PC != 0 {
				e.callerFrames = append(e.callerFrames, frame)
			}
			if !more {
				break
			}
		}
	}
	return e.callerFrames
}

// MarshalJSON marshals the error as a string if it has a single plain reason,
// or as an array of the marshaled reasons otherwise.
func (e *Error) MarshalJSON() ([]byte, error) {
	if len(e.reasons) == 0 {
		return json.Marshal(e.Error())
	}
	if len(e.reasons) == 1 {
		return marshalReason(e.reasons[0])
	}
	marshaled := make([]json.RawMessage, 0, len(e.reasons))
	for _, r := range e.reasons {
		res, err := marshalReason(r)
		if err != nil {
			return nil, err
		}
		marshaled = append(marshaled, res)
	}
	return json.Marshal(marshaled)
}

func marshalReason(e error) ([]byte, error) {
	switch err := e.(type) {
	case json.Marshaler, nil:
		return json.Marshal(err)
	default:
		return json.Marshal(err.Error())
	}
}

// FrameStack slice of frames containing information about the stack.
type FrameStack []runtime.Frame

func (s FrameStack) String() string {
	return strings.Join(lo.Map(s, func(f runtime.Frame, _ int) string {
		return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
	}), "\n")
}

// Reason wrapper around a non-error reason, preserving its JSON marshaling.
// Calling `Error()` returns the original value formatted with `%v`.
type Reason struct {
	reason any
}

// Value returns the reason's value.
func (r Reason) Value() any {
	return r.reason
}

func (r Reason) Error() string {
	return fmt.Sprintf("%v", r.reason)
}

// MarshalJSON marshals the wrapped reason.
func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.reason)
}
