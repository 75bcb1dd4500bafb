package pipeline

import (
	"context"
	"gatebot/internal/core/domain"
	"time"

	"github.com/rs/zerolog/log"
)

// Logging records every dispatch with its origin and timing.
func Logging() Stage {
	return Stage{
		Name: "logging",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			start := time.Now()

			chatKind := "private"
			if dc.Message.IsGroup {
				chatKind = "group"
			}

			log.Info().
				Str("command", dc.Descriptor.Name).
				Str("user", dc.Message.Username).
				Str("userID", dc.Message.UserID).
				Str("chat", chatKind).
				Str("chatID", dc.Message.ChatID).
				Msg("dispatching command")

			if err := next(ctx); err != nil {
				return err
			}

			log.Debug().
				Str("command", dc.Descriptor.Name).
				Dur("duration", time.Since(start)).
				Msg("dispatch finished")

			return nil
		},
	}
}
