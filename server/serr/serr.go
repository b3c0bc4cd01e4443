// Package serr holds common error values used across the introspection
// server. Notably, it contains the Error type, which can be created with one
// or more "cause" errors: calling errors.Is on this Error type with an
// argument equal to any of its causes returns true.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrQuotaExceeded  = errors.New("the account's document quota has been reached")
)

// Error is a typed error returned by certain functions in the introspection
// server as their error value. It contains both a message explaining what
// happened as well as one or more error values it considers to be its
// causes. Error is compatible with the use of errors.Is: calling errors.Is
// on some Error value along with any value it holds as a cause returns
// true. This allows for easy examination and failure condition checking
// without needing to resort to manual typecasting.
//
// If Error has at least one cause defined, the result of calling Error()
// will be its primary message with the result of calling Error() on its
// first cause appended to it.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of Error, or nil if none were defined.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error either is itself the given target error, or one
// of its causes is.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allEqual = false
					break
				}
			}
			if allEqual {
				return true
			}
		}
	}
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapDB creates a new Error that wraps err as a cause and automatically
// adds ErrDB as another cause. A user-set message may be provided with msg,
// but it may be left as "".
func WrapDB(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrDB}}
}

// New creates a new Error with the given message, along with any errors it
// should wrap as its causes. Causes are not required, but each one given
// will cause errors.Is to return true when checked against that same value.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
