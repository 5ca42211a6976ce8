package config

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidLoggerConfig     = goerr.New("invalid logger configuration")
	ErrInvalidRepositoryConfig = goerr.New("invalid repository configuration")
	ErrInvalidCatalogConfig    = goerr.New("invalid catalog configuration")
)
