package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrDraftNotFound   = errors.New("project draft not found")
)
