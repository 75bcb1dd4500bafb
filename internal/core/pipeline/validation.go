package pipeline

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

const contextDenied = "This command only works in %s."

// Validation denies commands invoked outside their declared chat
// context.
func Validation(sender port.TextSender) Stage {
	return Stage{
		Name: "validation",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			if contextAllowed(dc.Descriptor.Context, dc.Message.IsGroup) {
				return next(ctx)
			}

			where := "group chats"
			if dc.Descriptor.Context == domain.ContextPrivate {
				where = "private chats"
			}

			if _, err := sender.SendReply(ctx, dc.Message, fmt.Sprintf(contextDenied, where)); err != nil {
				log.Warn().Err(err).Msg("failed to send context denial")
			}

			return nil
		},
	}
}

func contextAllowed(c domain.ChatContext, isGroup bool) bool {
	switch c {
	case domain.ContextGroup:
		return isGroup
	case domain.ContextPrivate:
		return !isGroup
	default:
		return true
	}
}
