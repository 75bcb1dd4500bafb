package command

import (
	"context"
	"gatebot/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockCommand struct {
	desc domain.Descriptor
}

func (m *MockCommand) Execute(_ context.Context, _ *domain.DispatchContext) error {
	return nil
}

func (m *MockCommand) Descriptor() domain.Descriptor {
	return m.desc
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	cmd := &MockCommand{desc: domain.Descriptor{Name: "ping", Aliases: []string{"p", "latency"}}}

	require.NoError(t, r.Register(cmd))

	byName, err := r.Resolve("ping")
	require.NoError(t, err)

	for _, alias := range []string{"p", "latency"} {
		byAlias, err := r.Resolve(alias)
		require.NoError(t, err)
		assert.Equal(t, byName, byAlias, "alias %q should resolve to the same command", alias)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("missing")
	require.ErrorIs(t, err, domain.ErrCommandNotFound)
}

func TestRegisterAliasConflict(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "ping", Aliases: []string{"p"}}}))

	err := r.Register(&MockCommand{desc: domain.Descriptor{Name: "profile", Aliases: []string{"p"}}})
	require.ErrorIs(t, err, domain.ErrAliasConflict)
}

func TestRegisterAliasShadowsName(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "help"}}))

	err := r.Register(&MockCommand{desc: domain.Descriptor{Name: "menu", Aliases: []string{"help"}}})
	require.ErrorIs(t, err, domain.ErrAliasConflict)
}

func TestRegisterOverwriteDropsOldAliases(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "ping", Aliases: []string{"old"}}}))
	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "ping", Aliases: []string{"new"}}}))

	_, err := r.Resolve("old")
	require.ErrorIs(t, err, domain.ErrCommandNotFound)

	_, err = r.Resolve("new")
	require.NoError(t, err)
}

func TestDescriptorsSorted(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "welcome"}}))
	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "help"}}))
	require.NoError(t, r.Register(&MockCommand{desc: domain.Descriptor{Name: "ping"}}))

	descs := r.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, "help", descs[0].Name)
	assert.Equal(t, "ping", descs[1].Name)
	assert.Equal(t, "welcome", descs[2].Name)
}

func TestCheckCooldown(t *testing.T) {
	now := time.Now()
	r := NewRegistry()
	r.now = func() time.Time { return now }

	ok, remaining := r.CheckCooldown("ping", "user", 3*time.Second)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	now = now.Add(time.Second)
	ok, remaining = r.CheckCooldown("ping", "user", 3*time.Second)
	assert.False(t, ok)
	assert.Equal(t, 2*time.Second, remaining)

	now = now.Add(2100 * time.Millisecond)
	ok, _ = r.CheckCooldown("ping", "user", 3*time.Second)
	assert.True(t, ok, "cooldown should have elapsed 3100ms after first use")
}

func TestCheckCooldownPerUser(t *testing.T) {
	r := NewRegistry()

	ok, _ := r.CheckCooldown("ping", "alice", time.Minute)
	assert.True(t, ok)

	ok, _ = r.CheckCooldown("ping", "bob", time.Minute)
	assert.True(t, ok, "cooldowns are per user")

	ok, _ = r.CheckCooldown("help", "alice", time.Minute)
	assert.True(t, ok, "cooldowns are per command")
}

func TestSweepDropsExpiredEntries(t *testing.T) {
	now := time.Now()
	r := NewRegistry()
	r.now = func() time.Time { return now }

	r.CheckCooldown("ping", "alice", time.Second)
	r.CheckCooldown("help", "bob", time.Minute)

	now = now.Add(2 * time.Second)
	r.sweep()

	assert.NotContains(t, r.cooldowns, "ping")
	assert.Contains(t, r.cooldowns["help"], "bob")
}

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		prefix      string
		wantCommand string
		wantArgs    []string
	}{
		{
			description: "bare command",
			text:        "!ping",
			prefix:      "!",
			wantCommand: "ping",
		},
		{
			description: "command with args",
			text:        "!welcome set hello there",
			prefix:      "!",
			wantCommand: "welcome",
			wantArgs:    []string{"set", "hello", "there"},
		},
		{
			description: "command is lowercased",
			text:        "!PING",
			prefix:      "!",
			wantCommand: "ping",
		},
		{
			description: "missing prefix",
			text:        "ping",
			prefix:      "!",
			wantCommand: "",
		},
		{
			description: "prefix only",
			text:        "!",
			prefix:      "!",
			wantCommand: "",
		},
		{
			description: "empty input",
			text:        "",
			prefix:      "!",
			wantCommand: "",
		},
		{
			description: "collapses repeated whitespace",
			text:        "!ping   a   b",
			prefix:      "!",
			wantCommand: "ping",
			wantArgs:    []string{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			gotCommand, gotArgs := Parse(tc.text, tc.prefix)

			assert.Equal(t, tc.wantCommand, gotCommand)
			assert.Equal(t, tc.wantArgs, gotArgs)
		})
	}
}
