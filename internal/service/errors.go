package service

import "errors"

// Kinds. Every error returned by this package matches exactly one of them
// through errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal server error")
)

type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{
		kind: kind,
		msg:  msg,
	}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

var (
	ErrAuthorNotFound  = newError(ErrNotFound, "Author not found")
	ErrPostNotFound    = newError(ErrNotFound, "Post not found")
	ErrCommentNotFound = newError(ErrNotFound, "Comment not found")

	ErrEmailTaken       = newError(ErrConflict, "email already in use")
	ErrConcurrentUpdate = newError(ErrConflict, "post was modified concurrently, try again")

	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid password")
	ErrFederatedAccount   = newError(ErrUnauthorized, "account uses google sign-in")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid token")

	ErrMissingFields               = newError(ErrInvalidInput, "missing required fields")
	ErrFieldsNotAllowedToUpdate    = newError(ErrInvalidInput, "fields not allowed to update")
	ErrUnknownAuthor               = newError(ErrInvalidInput, "author does not exist")
	ErrInvalidPagination           = newError(ErrInvalidInput, "page and limit must be positive integers")
	ErrFileMustBeImage             = newError(ErrInvalidInput, "file must be an image")
	ErrFileMustHaveAValidExtension = newError(ErrInvalidInput, "file must have a valid extension")
	ErrFederationFailed            = newError(ErrUnauthorized, "google sign-in failed")

	ErrFailedToUploadImageToCDN = newError(ErrUnavailable, "failed to upload image to CDN")
)
