package commands

import (
	"context"
	"errors"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"strings"
)

type HelpHandler struct {
	registry port.CommandRegistry
	sender   port.TextSender
	prefix   string
}

func NewHelpHandler(registry port.CommandRegistry, sender port.TextSender, prefix string) *HelpHandler {
	return &HelpHandler{registry: registry, sender: sender, prefix: prefix}
}

func (h *HelpHandler) Descriptor() domain.Descriptor {
	return domain.Descriptor{
		Name:        "help",
		Aliases:     []string{"menu", "commands"},
		Description: "List available commands, or show details for one.",
		Usage:       "help [command]",
		Category:    domain.CategoryUtility,
		Context:     domain.ContextBoth,
	}
}

func (h *HelpHandler) Execute(ctx context.Context, dc *domain.DispatchContext) error {
	var text string
	if len(dc.Args) > 0 {
		text = h.detail(dc.Args[0])
	} else {
		text = h.menu()
	}

	if _, err := h.sender.SendReply(ctx, dc.Message, text); err != nil {
		return fmt.Errorf("sending help: %w", err)
	}

	return nil
}

// menu lists every registered command grouped by category.
func (h *HelpHandler) menu() string {
	grouped := make(map[domain.Category][]domain.Descriptor)
	var order []domain.Category

	for _, desc := range h.registry.Descriptors() {
		if _, seen := grouped[desc.Category]; !seen {
			order = append(order, desc.Category)
		}
		grouped[desc.Category] = append(grouped[desc.Category], desc)
	}

	var b strings.Builder
	b.WriteString("Available commands:\n")

	for _, category := range order {
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(string(category)))
		for _, desc := range grouped[category] {
			fmt.Fprintf(&b, "%s%s - %s\n", h.prefix, desc.Name, desc.Description)
		}
	}

	fmt.Fprintf(&b, "\nUse %shelp <command> for details.", h.prefix)

	return b.String()
}

func (h *HelpHandler) detail(name string) string {
	cmd, err := h.registry.Resolve(strings.ToLower(name))
	if errors.Is(err, domain.ErrCommandNotFound) {
		return fmt.Sprintf("I don't know a command called %q.", name)
	}
	if err != nil {
		return fmt.Sprintf("I couldn't look up %q.", name)
	}

	desc := cmd.Descriptor()

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s - %s\n", h.prefix, desc.Name, desc.Description)
	fmt.Fprintf(&b, "Usage: %s%s\n", h.prefix, desc.Usage)

	if len(desc.Aliases) > 0 {
		fmt.Fprintf(&b, "Aliases: %s\n", strings.Join(desc.Aliases, ", "))
	}
	if desc.Permission == domain.PermissionAdmin {
		b.WriteString("Requires: group admin\n")
	}
	if desc.Context == domain.ContextGroup {
		b.WriteString("Group chats only.\n")
	}

	fmt.Fprintf(&b, "Cooldown: %.0fs", desc.CooldownOrDefault().Seconds())

	return b.String()
}
