package domain

import "errors"

var (
	ErrTemplateNotFound   = errors.New("template not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)
