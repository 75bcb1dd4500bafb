package pipeline

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const cooldownDenied = "Please wait %ds before using this command again."

// Cooldown denies commands still on cooldown for the sender, reporting
// the remaining wait rounded up to whole seconds.
func Cooldown(registry port.CommandRegistry, sender port.TextSender) Stage {
	return Stage{
		Name: "cooldown",
		Run: func(ctx context.Context, dc *domain.DispatchContext, next Next) error {
			ok, remaining := registry.CheckCooldown(
				dc.Descriptor.Name,
				dc.Message.UserID,
				cooldownFor(dc.Descriptor),
			)
			if ok {
				return next(ctx)
			}

			seconds := int(math.Ceil(remaining.Seconds()))
			if _, err := sender.SendReply(ctx, dc.Message, fmt.Sprintf(cooldownDenied, seconds)); err != nil {
				log.Warn().Err(err).Msg("failed to send cooldown denial")
			}

			return nil
		},
	}
}

// cooldownFor resolves a command's cooldown: its own setting, then the
// configured default, then the built-in one.
func cooldownFor(desc domain.Descriptor) time.Duration {
	if desc.Cooldown > 0 {
		return desc.Cooldown
	}
	if configured := viper.GetDuration("cooldown.default"); configured > 0 {
		return configured
	}
	return domain.DefaultCooldown
}
