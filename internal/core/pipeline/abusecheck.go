package pipeline

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"gatebot/internal/core/service"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	firstWarning  = "Warning: please stop spamming."
	finalWarning  = "Final warning: stop spamming or you will be removed."
	removed       = "%s was removed for spamming."
	wouldRemove   = "Spam detected. You would have been removed if I were a group admin."
	removalFailed = "Sorry, I couldn't remove that user."
)

// AbuseCheck feeds group messages through the sliding-window tracker
// and escalates: warning, final warning, then removal when the bot
// holds admin capability in the chat.
func AbuseCheck(tracker *service.AbuseTracker, groups *service.GroupService,
	sender port.TextSender, remover port.ParticipantRemover) Stage {
	return Stage{
		Name: "abuse",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			msg := dc.Message

			if !msg.IsGroup {
				return next(ctx)
			}

			group, err := groups.GetOrCreate(ctx, msg.ChatID)
			if err != nil {
				return fmt.Errorf("loading group settings: %w", err)
			}

			if !group.AntiSpam.Enabled {
				return next(ctx)
			}

			window := time.Duration(group.AntiSpam.WindowSeconds) * time.Second
			verdict := tracker.Evaluate(msg.ChatID, msg.UserID, group.AntiSpam.MaxMessages, window)

			switch verdict {
			case service.VerdictAllowed:
				return next(ctx)
			case service.VerdictFirstWarning:
				reply(ctx, sender, msg, firstWarning)
				return nil
			case service.VerdictFinalWarning:
				reply(ctx, sender, msg, finalWarning)
				return nil
			default:
				return enforce(ctx, tracker, sender, remover, dc)
			}
		},
	}
}

func enforce(ctx context.Context, tracker *service.AbuseTracker,
	sender port.TextSender, remover port.ParticipantRemover, dc *domain.DispatchContext) error {
	msg := dc.Message

	if !dc.BotAuthorization().IsAdmin {
		reply(ctx, sender, msg, wouldRemove)
		return nil
	}

	if err := remover.RemoveParticipant(ctx, msg.ChatID, msg.UserID); err != nil {
		log.Error().Err(err).
			Str("chatID", msg.ChatID).
			Str("userID", msg.UserID).
			Msg("failed to remove participant")
		reply(ctx, sender, msg, removalFailed)
		return nil
	}

	tracker.Reset(msg.ChatID, msg.UserID)

	name := msg.Username
	if name == "" {
		name = "@" + domain.LocalPart(msg.UserID)
	}
	if _, err := sender.SendText(ctx, msg.ChatID, fmt.Sprintf(removed, name)); err != nil {
		log.Warn().Err(err).Msg("failed to announce removal")
	}

	return nil
}

func reply(ctx context.Context, sender port.TextSender, msg *domain.Message, text string) {
	if _, err := sender.SendReply(ctx, msg, text); err != nil {
		log.Warn().Err(err).Msg("failed to send abuse warning")
	}
}
