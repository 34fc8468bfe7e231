package service

import "errors"

// Failure taxonomy. Handlers map these onto HTTP status codes: invalid input
// to 400, bad credentials to 401, not found to 404, backend failures to 502.
var (
	// ErrInvalidInput means a required field or upload was missing. It is
	// raised before any external backend is called.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrNotFound is returned for records that do not exist or are owned
	// by another user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrRecognition means the vision backend could not be reached or the
	// image could not be decoded. Nothing is persisted.
	ErrRecognition = errors.New("image recognition failed")

	// ErrMalformedGeneration means the text-generation backend did not
	// honor the requested reply format. Nothing is persisted.
	ErrMalformedGeneration = errors.New("malformed generation output")
)
