package port

import (
	"context"
	"gatebot/internal/core/domain"
	"time"
)

type Command interface {
	// Execute runs the command body against the state of one dispatch.
	Execute(ctx context.Context, dc *domain.DispatchContext) error
	// Descriptor returns the registration record for this command.
	Descriptor() domain.Descriptor
}

type CommandRegistry interface {
	// Register adds a command under its name and aliases. Re-registering
	// a name replaces the previous registration; an alias colliding with
	// a different command is rejected.
	Register(handler Command) error
	// Resolve returns the command registered under the given name or
	// alias, or domain.ErrCommandNotFound.
	Resolve(nameOrAlias string) (Command, error)
	// Descriptors returns the registration records of all commands.
	Descriptors() []domain.Descriptor
	// CheckCooldown records a use of the command by the user if no
	// cooldown is pending and reports whether the use is allowed, along
	// with the remaining wait when it is not.
	CheckCooldown(commandName, userID string, d time.Duration) (bool, time.Duration)
}
