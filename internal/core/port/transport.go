package port

import (
	"context"
	"gatebot/internal/core/domain"
)

type TextSender interface {
	// SendText sends a plain message to the given chat and returns the
	// sent message ID.
	SendText(ctx context.Context, chatID string, text string) (int, error)
	// SendReply sends a reply to the given message and returns the sent
	// message ID.
	SendReply(ctx context.Context, message *domain.Message, text string) (int, error)
}

type Reactor interface {
	// SendReaction attaches an emoji reaction to the given message.
	SendReaction(ctx context.Context, message *domain.Message, emoji string) error
}

type RosterFetcher interface {
	// FetchRoster returns the current membership snapshot for a group
	// chat, including each participant's role.
	FetchRoster(ctx context.Context, chatID string) (*domain.Roster, error)
	// BotID returns the bot's own identifier as it appears in rosters.
	BotID() string
}

type ParticipantRemover interface {
	// RemoveParticipant removes a user from a group chat.
	RemoveParticipant(ctx context.Context, chatID, userID string) error
}
