package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across repository backends so callers can match
// with errors.Is regardless of the configured backend.
var (
	ErrSnippetNotFound      = goerr.New("snippet not found")
	ErrCardNotFound         = goerr.New("practice card not found")
	ErrCardFeedbackNotFound = goerr.New("practice card feedback not found")

	ErrMissingField      = goerr.New("required field is missing")
	ErrInvalidConfidence = goerr.New("confidence out of range")
	ErrInvalidStatus     = goerr.New("invalid review status")
	ErrInvalidRating     = goerr.New("rating out of range")
)
