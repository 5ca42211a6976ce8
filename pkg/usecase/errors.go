package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidInput marks request payloads that fail validation before
	// any mutation happens
	ErrInvalidInput = goerr.New("invalid input")
)
