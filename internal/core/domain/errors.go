package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound indicates the session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyConverted indicates the document was already turned into a lesson.
	// Stores return it when a conditional update loses the race.
	ErrAlreadyConverted = errors.New("document already converted")

	// ErrConversionInProgress indicates another worker holds the document lock
	ErrConversionInProgress = errors.New("conversion already in progress")

	// ErrUnsupportedUpload indicates the uploaded file type is not accepted
	ErrUnsupportedUpload = errors.New("unsupported upload type")

	// ErrUnsupportedFormat indicates the parser cannot handle the file format
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileNotFound indicates the stored file for a document is missing
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyContent indicates the decoded document is blank
	ErrEmptyContent = errors.New("empty content")

	// ErrDecode indicates no configured encoding could decode the file
	ErrDecode = errors.New("decode failed")

	// ErrTaskNotPending indicates a task already left the pending state
	ErrTaskNotPending = errors.New("task is not pending")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
