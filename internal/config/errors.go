package config

import "errors"

// Error definitions for config package.
var (
	// Configuration file errors.
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileParse    = errors.New("failed to parse config file")
	// Configuration validation errors.
	ErrInvalidNamespace     = errors.New("validator.namespace must be an identifier")
	ErrEmptyPrefix          = errors.New("validator.prefix cannot be empty")
	ErrInvalidTargetKeyword = errors.New("validator.target_keyword must be an identifier")
	ErrInvalidExclude       = errors.New("exclude pattern is not a valid regular expression")
	ErrInvalidParallel      = errors.New("parallel must be at least 1")
	ErrInvalidLogLevel      = errors.New("log.level is not a supported level")
	ErrInvalidLogFormat     = errors.New("log.format is not a supported format")
)
