package workspace

import "errors"

var (
	ErrInvalidPath        = errors.New("invalid path")
	ErrPathNotFound       = errors.New("path does not exist")
	ErrNotFolder          = errors.New("not a folder")
	ErrInvalidLabel       = errors.New("invalid label name")
	ErrLabelExists        = errors.New("label already exists")
	ErrNoSelection        = errors.New("no images selected")
	ErrInvalidDestination = errors.New("invalid destination folder")
)
