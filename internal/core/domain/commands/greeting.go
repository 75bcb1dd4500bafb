package commands

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"gatebot/internal/core/service"
	"strings"
)

const (
	greetingUsage = "Usage: %s%s on|off|set <message>|status"

	greetingKindWelcome = "welcome"
	greetingKindGoodbye = "goodbye"
)

// GreetingHandler configures the per-group welcome or goodbye message.
// The same body serves both commands; kind selects which settings block
// it operates on.
type GreetingHandler struct {
	groups *service.GroupService
	sender port.TextSender
	prefix string
	kind   string
}

func NewWelcomeHandler(groups *service.GroupService, sender port.TextSender, prefix string) *GreetingHandler {
	return &GreetingHandler{groups: groups, sender: sender, prefix: prefix, kind: greetingKindWelcome}
}

func NewGoodbyeHandler(groups *service.GroupService, sender port.TextSender, prefix string) *GreetingHandler {
	return &GreetingHandler{groups: groups, sender: sender, prefix: prefix, kind: greetingKindGoodbye}
}

func (h *GreetingHandler) Descriptor() domain.Descriptor {
	subject := "members joining"
	if h.kind == greetingKindGoodbye {
		subject = "members leaving"
	}

	return domain.Descriptor{
		Name:        h.kind,
		Description: fmt.Sprintf("Configure the message sent for %s. Use @user for the member's name.", subject),
		Usage:       h.kind + " on|off|set <message>|status",
		Category:    domain.CategoryAdmin,
		Permission:  domain.PermissionAdmin,
		Context:     domain.ContextGroup,
	}
}

func (h *GreetingHandler) Execute(ctx context.Context, dc *domain.DispatchContext) error {
	if len(dc.Args) == 0 {
		return h.reply(ctx, dc, fmt.Sprintf(greetingUsage, h.prefix, h.kind))
	}

	chatID := dc.Message.ChatID

	switch strings.ToLower(dc.Args[0]) {
	case "on":
		if err := h.setEnabled(ctx, chatID, true, ""); err != nil {
			return err
		}
		return h.reply(ctx, dc, fmt.Sprintf("The %s message is now enabled.", h.kind))
	case "off":
		if err := h.setEnabled(ctx, chatID, false, ""); err != nil {
			return err
		}
		return h.reply(ctx, dc, fmt.Sprintf("The %s message is now disabled.", h.kind))
	case "set":
		message := strings.Join(dc.Args[1:], " ")
		if message == "" {
			return h.reply(ctx, dc, fmt.Sprintf("Usage: %s%s set <message>", h.prefix, h.kind))
		}
		if err := h.setEnabled(ctx, chatID, true, message); err != nil {
			return err
		}
		return h.reply(ctx, dc, fmt.Sprintf("The %s message was updated.", h.kind))
	case "status":
		return h.status(ctx, dc)
	default:
		return h.reply(ctx, dc, fmt.Sprintf(greetingUsage, h.prefix, h.kind))
	}
}

func (h *GreetingHandler) setEnabled(ctx context.Context, chatID string, enabled bool, message string) error {
	var err error
	if h.kind == greetingKindWelcome {
		err = h.groups.SetWelcome(ctx, chatID, enabled, message)
	} else {
		err = h.groups.SetGoodbye(ctx, chatID, enabled, message)
	}
	if err != nil {
		return fmt.Errorf("updating %s settings: %w", h.kind, err)
	}

	return nil
}

func (h *GreetingHandler) status(ctx context.Context, dc *domain.DispatchContext) error {
	group, err := h.groups.GetOrCreate(ctx, dc.Message.ChatID)
	if err != nil {
		return fmt.Errorf("loading group settings: %w", err)
	}

	settings := group.Welcome
	if h.kind == greetingKindGoodbye {
		settings = group.Goodbye
	}

	state := "disabled"
	if settings.Enabled {
		state = "enabled"
	}

	return h.reply(ctx, dc, fmt.Sprintf("The %s message is %s:\n%s", h.kind, state, settings.Message))
}

func (h *GreetingHandler) reply(ctx context.Context, dc *domain.DispatchContext, text string) error {
	if _, err := h.sender.SendReply(ctx, dc.Message, text); err != nil {
		return fmt.Errorf("sending %s reply: %w", h.kind, err)
	}
	return nil
}
