package errs

import (
	"errors"
	"fmt"
)

// Error is a purge failure carrying a stable code that callers branch on.
type Error interface {
	error
	Code() int32
	Msg() string
	// SetMsg returns a copy with the same code and a new message.
	SetMsg(msg string) Error
	// Wrap returns a copy with the same code that unwraps to cause.
	Wrap(cause error) Error
}

type bizError struct {
	code  int32
	msg   string
	cause error
}

func (e *bizError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d:%s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("%d:%s", e.code, e.msg)
}

func (e *bizError) Code() int32 { return e.code }

func (e *bizError) Msg() string { return e.msg }

func (e *bizError) Unwrap() error { return e.cause }

func (e *bizError) SetMsg(msg string) Error {
	return &bizError{code: e.code, msg: msg, cause: e.cause}
}

func (e *bizError) Wrap(cause error) Error {
	return &bizError{code: e.code, msg: e.msg, cause: cause}
}

func New(code int32, msg string) Error {
	return &bizError{code: code, msg: msg}
}

// Is reports whether any error in err's chain carries target's code.
func Is(err error, target Error) bool {
	var e Error
	if target == nil || !errors.As(err, &e) {
		return false
	}
	return e.Code() == target.Code()
}

// CodeOf returns the code of the first Error in err's chain, or 0.
func CodeOf(err error) int32 {
	var e Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return 0
}

var (
	InvalidUser      = New(3_0001, "invalid user id")
	AlreadyDeleting  = New(3_0002, "user is already being deleted")
	UserNotFound     = New(3_0003, "user not found")
	GuardUnavailable = New(3_0004, "deletion guard unavailable")
)
