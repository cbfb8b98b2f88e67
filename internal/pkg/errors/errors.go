package errors

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDatabaseError  = errors.New("database error")
	ErrUpstreamError  = errors.New("upstream api error")
	ErrBadImageReply  = errors.New("image payload too small")
	ErrUnknownFeature = errors.New("unknown feature")
)

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}
