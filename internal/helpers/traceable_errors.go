package helpers

import (
	"strings"

	"github.com/ztrue/tracerr"
)

// Error accumulates one or more traced errors. The zero value (NilError)
// means "no error", so Error can be returned by value on hot paths.
type Error struct {
	errs []tracerr.Error
}

var NilError = Error{nil}

func IsNil(err error) bool {
	if traceableErr, ok := err.(Error); ok {
		return traceableErr.First() == nil
	}
	if traceableErr, ok := err.(*Error); ok {
		return traceableErr == nil || traceableErr.First() == nil
	}
	return err == nil
}

func (e Error) IsNil() bool {
	return e.First() == nil
}

func (e Error) HasError() bool {
	return !e.IsNil()
}

func (e Error) Error() string {
	result := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		result = append(result, err.Error())
	}
	return strings.Join(result, "; ")
}

// Trace renders every accumulated error with its stack frames.
func (e Error) Trace() string {
	result := ""
	for _, err := range e.errs {
		result += "-------------------------------------------------------------------------------\n"
		result += tracerr.Sprint(err) + "\n"
	}
	return result
}

func (e Error) First() tracerr.Error {
	if e.errs == nil {
		return nil
	}
	return e.errs[0]
}

// Unwrap exposes the first underlying error so errors.Is / errors.As work
// through an Error.
func (e Error) Unwrap() error {
	first := e.First()
	if first == nil {
		return nil
	}
	return first.Unwrap()
}

func (e Error) NumErrors() int {
	num := 0
	for _, err := range e.errs {
		if err != nil {
			num++
		}
	}
	return num
}

func Wrap(err error) Error {
	if IsNil(err) {
		return NilError
	}
	if traceableErr, ok := err.(Error); ok {
		return traceableErr
	}
	return Error{[]tracerr.Error{tracerr.Wrap(err)}}
}

func Errorf(format string, args ...any) Error {
	return Error{[]tracerr.Error{tracerr.Errorf(format, args...)}}
}

func Join(others ...Error) Error {
	others = FilterSlice(others, func(err Error) bool {
		return !err.IsNil()
	})
	if len(others) == 0 {
		return NilError
	}
	if len(others) == 1 {
		return others[0]
	}
	result := Error{}
	for _, o := range others {
		result.errs = append(result.errs, o.errs...)
	}
	return result
}

// Panicf is used for invariant violations that callers must never recover
// from: corrupted positions, exhausted buffers, unbalanced unmake calls.
func Panicf(format string, args ...any) {
	panic(Errorf(format, args...))
}
