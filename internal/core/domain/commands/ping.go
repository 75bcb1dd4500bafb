package commands

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

type PingHandler struct {
	sender  port.TextSender
	reactor port.Reactor
}

func NewPingHandler(sender port.TextSender, reactor port.Reactor) *PingHandler {
	return &PingHandler{sender: sender, reactor: reactor}
}

func (h *PingHandler) Descriptor() domain.Descriptor {
	return domain.Descriptor{
		Name:        "ping",
		Aliases:     []string{"p", "latency"},
		Description: "Check whether the bot is alive and how fast it answers.",
		Usage:       "ping",
		Category:    domain.CategoryUtility,
		Context:     domain.ContextBoth,
	}
}

func (h *PingHandler) Execute(ctx context.Context, dc *domain.DispatchContext) error {
	if err := h.reactor.SendReaction(ctx, dc.Message, "👀"); err != nil {
		log.Warn().Err(err).Msg("failed to react to ping")
	}

	start := time.Now()

	if _, err := h.sender.SendReply(ctx, dc.Message, "Pong!"); err != nil {
		return fmt.Errorf("sending pong: %w", err)
	}

	elapsed := time.Since(start)
	log.Debug().Dur("elapsed", elapsed).Msg("ping round trip")

	if _, err := h.sender.SendReply(ctx, dc.Message,
		fmt.Sprintf("Round trip took %d ms.", elapsed.Milliseconds())); err != nil {
		return fmt.Errorf("sending latency report: %w", err)
	}

	return nil
}
