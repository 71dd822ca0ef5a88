package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("actor is not the author")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")

	ErrNoImage           = errors.New("no image provided")
	ErrImageTooLarge     = errors.New("image too large")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrUploadUnavailable = errors.New("image storage not configured")
)

// ValidationError reports a field-level rule violation with a client-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
