package pipeline

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/domain/command"
	"gatebot/internal/core/port"
	"gatebot/internal/core/service"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const executionFailed = "Something went wrong running that command. Please try again."

// Dispatcher is the entry point for inbound messages: it resolves the
// command, loads authorization on demand, runs the pipeline and invokes
// the command body. Dispatch never lets a command failure escape.
type Dispatcher struct {
	registry port.CommandRegistry
	auth     service.Authorizer
	pipeline *Pipeline
	sender   port.TextSender
	prefix   string
}

func NewDispatcher(registry port.CommandRegistry, auth service.Authorizer, pipeline *Pipeline,
	sender port.TextSender, prefix string) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		auth:     auth,
		pipeline: pipeline,
		sender:   sender,
		prefix:   prefix,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *domain.Message) {
	name, args := command.Parse(msg.Text, d.prefix)
	if name == "" {
		return
	}

	cmd, err := d.registry.Resolve(name)
	if err != nil {
		log.Debug().Str("command", name).Msg("no handler for command")
		return
	}

	desc := cmd.Descriptor()

	l := log.With().
		Str("dispatchID", uuid.Must(uuid.NewV4()).String()).
		Str("command", desc.Name).
		Str("userID", msg.UserID).
		Logger()

	dc := &domain.DispatchContext{
		Message:    msg,
		Descriptor: desc,
		Args:       args,
	}

	if desc.Permission > domain.PermissionUser || desc.BotCapability != domain.CapabilityNone {
		chatID := ""
		if msg.IsGroup {
			chatID = msg.ChatID
		}

		userAuth := d.auth.GetUserAuthorization(ctx, chatID, msg.UserID)
		dc.UserAuth = &userAuth

		if msg.IsGroup {
			botAuth := d.auth.GetBotAuthorization(ctx, msg.ChatID)
			dc.BotAuth = &botAuth
		}
	}

	if err := d.execute(ctx, dc, cmd); err != nil {
		l.Error().Err(err).Msg("command dispatch failed")

		if _, err := d.sender.SendReply(ctx, msg, executionFailed); err != nil {
			l.Warn().Err(err).Msg(domain.ErrSendingReplyFailed.Error())
		}
	}
}

// execute shields the dispatch loop: a panicking command body surfaces
// as an ordinary error.
func (d *Dispatcher) execute(ctx context.Context, dc *domain.DispatchContext, cmd port.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %s panicked: %v", dc.Descriptor.Name, r)
		}
	}()

	return d.pipeline.Execute(ctx, dc, func(ctx context.Context) error {
		return cmd.Execute(ctx, dc)
	})
}
