package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrCatalogMissing  = errors.New("catalog file is missing")
	ErrPersistenceSink = errors.New("persistence sink failed")
)
