package pipeline

import (
	"context"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

const (
	userDenied = "You don't have permission to use this command."
	botDenied  = "I need to be a group admin to run this command."
)

// Authorization denies commands whose user-role or bot-capability
// requirements are not met. Owners pass the user check unconditionally.
func Authorization(sender port.TextSender) Stage {
	return Stage{
		Name: "authorization",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			if !userAllowed(dc.Descriptor.Permission, dc.UserAuthorization()) {
				if _, err := sender.SendReply(ctx, dc.Message, userDenied); err != nil {
					log.Warn().Err(err).Msg("failed to send authorization denial")
				}
				return nil
			}

			if dc.Message.IsGroup &&
				dc.Descriptor.BotCapability == domain.CapabilityAdmin &&
				!dc.BotAuthorization().IsAdmin {
				if _, err := sender.SendReply(ctx, dc.Message, botDenied); err != nil {
					log.Warn().Err(err).Msg("failed to send capability denial")
				}
				return nil
			}

			return next(ctx)
		},
	}
}

func userAllowed(required domain.PermissionLevel, auth domain.UserAuthorization) bool {
	if auth.IsOwner {
		return true
	}

	switch required {
	case domain.PermissionOwner:
		return false
	case domain.PermissionAdmin:
		return auth.IsAdmin
	default:
		return true
	}
}
