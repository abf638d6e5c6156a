package core

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationArchived = errors.New("conversation is archived")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrInvalidRole          = errors.New("invalid message role")
	ErrEmptyContent         = errors.New("message content cannot be empty")
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrEmptyName            = errors.New("name cannot be empty")
)
