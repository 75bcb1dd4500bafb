package domain

import "errors"

var (
	ErrCommandNotFound    = errors.New("command not found")
	ErrAliasConflict      = errors.New("alias already registered to another command")
	ErrSendingReplyFailed = errors.New("failed to send reply")
)
