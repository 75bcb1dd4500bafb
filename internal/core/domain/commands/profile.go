package commands

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"gatebot/internal/core/service"
)

type ProfileHandler struct {
	users  *service.UserService
	sender port.TextSender
}

func NewProfileHandler(users *service.UserService, sender port.TextSender) *ProfileHandler {
	return &ProfileHandler{users: users, sender: sender}
}

func (h *ProfileHandler) Descriptor() domain.Descriptor {
	return domain.Descriptor{
		Name:        "profile",
		Aliases:     []string{"rank", "level"},
		Description: "Show your level, experience and command stats.",
		Usage:       "profile",
		Category:    domain.CategoryUtility,
		Context:     domain.ContextBoth,
	}
}

func (h *ProfileHandler) Execute(ctx context.Context, dc *domain.DispatchContext) error {
	user, err := h.users.GetOrCreate(ctx, dc.Message.UserID)
	if err != nil {
		return fmt.Errorf("loading user record: %w", err)
	}

	next := service.RequiredXP(user.Level)

	text := fmt.Sprintf("%s\nLevel %d (%d/%d XP)\nCommands used: %d",
		user.Name, user.Level, user.XP, next, user.Commands)

	if _, err := h.sender.SendReply(ctx, dc.Message, text); err != nil {
		return fmt.Errorf("sending profile: %w", err)
	}

	return nil
}
