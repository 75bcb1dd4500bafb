package pipeline

import (
	"context"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/service"

	"github.com/rs/zerolog/log"
)

// XP awarded per dispatched command.
const commandXP = 5

// RecordKeeping upserts the sender's user record (and the group record
// in groups) before the dispatch runs, and bumps activity counters once
// it has. Bookkeeping failures never block the dispatch.
func RecordKeeping(users *service.UserService, groups *service.GroupService) Stage {
	return Stage{
		Name: "records",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			msg := dc.Message

			if err := users.Touch(ctx, msg.UserID, msg.Username); err != nil {
				log.Warn().Err(err).Str("userID", msg.UserID).Msg("failed to upsert user record")
			}

			if msg.IsGroup {
				if _, err := groups.GetOrCreate(ctx, msg.ChatID); err != nil {
					log.Warn().Err(err).Str("chatID", msg.ChatID).Msg("failed to upsert group record")
				}
			}

			if err := next(ctx); err != nil {
				return err
			}

			if err := users.IncrementCommands(ctx, msg.UserID); err != nil {
				log.Warn().Err(err).Str("userID", msg.UserID).Msg("failed to count command")
			}
			if _, err := users.AddXP(ctx, msg.UserID, commandXP); err != nil {
				log.Warn().Err(err).Str("userID", msg.UserID).Msg("failed to award xp")
			}
			if msg.IsGroup {
				if err := groups.IncrementCommands(ctx, msg.ChatID); err != nil {
					log.Warn().Err(err).Str("chatID", msg.ChatID).Msg("failed to count group command")
				}
			}

			return nil
		},
	}
}
