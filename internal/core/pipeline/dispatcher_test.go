package pipeline

import (
	"context"
	"gatebot/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchIgnoresNonCommandText(t *testing.T) {
	registry := &mockRegistry{}
	sender := &mockSender{}
	d := NewDispatcher(registry, &mockAuthorizer{}, New(), sender, "!")

	msg := groupMessage()
	msg.Text = "just chatting"

	d.Dispatch(context.Background(), msg)

	assert.Zero(t, registry.resolveCalls)
	assert.Empty(t, sender.replies)
}

func TestDispatchIgnoresUnknownCommand(t *testing.T) {
	registry := &mockRegistry{resolveErr: domain.ErrCommandNotFound}
	sender := &mockSender{}
	d := NewDispatcher(registry, &mockAuthorizer{}, New(), sender, "!")

	d.Dispatch(context.Background(), groupMessage())

	assert.Equal(t, 1, registry.resolveCalls)
	assert.Empty(t, sender.replies, "unknown commands are dropped silently")
	assert.Empty(t, sender.texts)
}

func TestDispatchExecutesCommand(t *testing.T) {
	cmd := &mockCommand{desc: domain.Descriptor{Name: "ping"}}
	registry := &mockRegistry{cmd: cmd}
	auth := &mockAuthorizer{}
	d := NewDispatcher(registry, auth, New(), &mockSender{}, "!")

	d.Dispatch(context.Background(), groupMessage())

	assert.Equal(t, 1, cmd.executed)
	assert.Zero(t, auth.userCalls, "plain commands skip authorization lookups")
	assert.Zero(t, auth.botCalls)
}

func TestDispatchLoadsAuthorizationWhenRequired(t *testing.T) {
	tests := []struct {
		name          string
		desc          domain.Descriptor
		isGroup       bool
		wantUserCalls int
		wantBotCalls  int
	}{
		{
			name:          "admin command in group",
			desc:          domain.Descriptor{Name: "ban", Permission: domain.PermissionAdmin},
			isGroup:       true,
			wantUserCalls: 1,
			wantBotCalls:  1,
		},
		{
			name:          "owner command in private",
			desc:          domain.Descriptor{Name: "shutdown", Permission: domain.PermissionOwner},
			wantUserCalls: 1,
		},
		{
			name:          "bot capability only",
			desc:          domain.Descriptor{Name: "kick", BotCapability: domain.CapabilityAdmin},
			isGroup:       true,
			wantUserCalls: 1,
			wantBotCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &mockCommand{desc: tt.desc}
			auth := &mockAuthorizer{userAuth: domain.UserAuthorization{IsOwner: true}, botAuth: domain.BotAuthorization{IsAdmin: true}}
			d := NewDispatcher(&mockRegistry{cmd: cmd}, auth, New(), &mockSender{}, "!")

			msg := groupMessage()
			msg.IsGroup = tt.isGroup
			msg.Text = "!" + tt.desc.Name

			d.Dispatch(context.Background(), msg)

			assert.Equal(t, tt.wantUserCalls, auth.userCalls)
			assert.Equal(t, tt.wantBotCalls, auth.botCalls)
			assert.Equal(t, 1, cmd.executed)
		})
	}
}

func TestDispatchPipelineShortCircuitSkipsCommand(t *testing.T) {
	cmd := &mockCommand{desc: domain.Descriptor{Name: "ping"}}
	registry := &mockRegistry{cmd: cmd, remaining: 3 * time.Second}
	sender := &mockSender{}
	d := NewDispatcher(registry, &mockAuthorizer{}, New(Cooldown(registry, sender)), sender, "!")

	d.Dispatch(context.Background(), groupMessage())

	assert.Zero(t, cmd.executed, "denied dispatches must not reach the command body")
	require.Len(t, sender.replies, 1)
	assert.Contains(t, sender.replies[0], "Please wait")
}

func TestDispatchCommandErrorSendsGenericReply(t *testing.T) {
	cmd := &mockCommand{desc: domain.Descriptor{Name: "ping"}, execErr: assert.AnError}
	sender := &mockSender{}
	d := NewDispatcher(&mockRegistry{cmd: cmd}, &mockAuthorizer{}, New(), sender, "!")

	d.Dispatch(context.Background(), groupMessage())

	require.Len(t, sender.replies, 1)
	assert.Equal(t, executionFailed, sender.replies[0])
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	cmd := &mockCommand{desc: domain.Descriptor{Name: "ping"}, panics: true}
	sender := &mockSender{}
	d := NewDispatcher(&mockRegistry{cmd: cmd}, &mockAuthorizer{}, New(), sender, "!")

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), groupMessage())
	})

	require.Len(t, sender.replies, 1)
	assert.Equal(t, executionFailed, sender.replies[0])
}

func TestDispatchPassesArguments(t *testing.T) {
	var gotArgs []string
	cmd := &argCapturingCommand{desc: domain.Descriptor{Name: "echo"}, capture: &gotArgs}
	d := NewDispatcher(&mockRegistry{cmd: cmd}, &mockAuthorizer{}, New(), &mockSender{}, "!")

	msg := groupMessage()
	msg.Text = "!echo hello there"

	d.Dispatch(context.Background(), msg)

	assert.Equal(t, []string{"hello", "there"}, gotArgs)
}

type argCapturingCommand struct {
	desc    domain.Descriptor
	capture *[]string
}

func (c *argCapturingCommand) Execute(_ context.Context, dc *domain.DispatchContext) error {
	*c.capture = dc.Args
	return nil
}

func (c *argCapturingCommand) Descriptor() domain.Descriptor {
	return c.desc
}
