package services

import "errors"

var (
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrCoverRequired is returned when a post is created without a cover upload.
	ErrCoverRequired = errors.New("no file uploaded")

	// ErrInvalidCaptcha is returned when the CAPTCHA challenge does not match.
	ErrInvalidCaptcha = errors.New("invalid captcha")

	// ErrInvalidCredentials is returned for any failed login, without
	// revealing which check failed.
	ErrInvalidCredentials = errors.New("wrong credentials")

	// ErrNotAuthor is returned when a user mutates a post they do not own.
	ErrNotAuthor = errors.New("you are not the author")
)
