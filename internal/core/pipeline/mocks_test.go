package pipeline

import (
	"context"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"time"
)

type mockSender struct {
	texts   []string
	replies []string
	sendErr error
}

func (m *mockSender) SendText(_ context.Context, _ string, text string) (int, error) {
	m.texts = append(m.texts, text)
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	return len(m.texts), nil
}

func (m *mockSender) SendReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.replies = append(m.replies, text)
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	return len(m.replies), nil
}

type mockRemover struct {
	removed   []string
	removeErr error
}

func (m *mockRemover) RemoveParticipant(_ context.Context, chatID, userID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, chatID+":"+userID)
	return nil
}

type mockAuthorizer struct {
	userAuth  domain.UserAuthorization
	botAuth   domain.BotAuthorization
	userCalls int
	botCalls  int
}

func (m *mockAuthorizer) GetUserAuthorization(_ context.Context, _, _ string) domain.UserAuthorization {
	m.userCalls++
	return m.userAuth
}

func (m *mockAuthorizer) GetBotAuthorization(_ context.Context, _ string) domain.BotAuthorization {
	m.botCalls++
	return m.botAuth
}

func (m *mockAuthorizer) Invalidate(_ string) {}

func (m *mockAuthorizer) InvalidateAll() {}

type mockCommand struct {
	desc     domain.Descriptor
	execErr  error
	executed int
	panics   bool
}

func (m *mockCommand) Execute(_ context.Context, _ *domain.DispatchContext) error {
	m.executed++
	if m.panics {
		panic("boom")
	}
	return m.execErr
}

func (m *mockCommand) Descriptor() domain.Descriptor {
	return m.desc
}

type mockRegistry struct {
	cmd           port.Command
	resolveErr    error
	resolveCalls  int
	cooldownOK    bool
	remaining     time.Duration
	cooldownCalls int
}

func (m *mockRegistry) Register(_ port.Command) error {
	return nil
}

func (m *mockRegistry) Resolve(_ string) (port.Command, error) {
	m.resolveCalls++
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	return m.cmd, nil
}

func (m *mockRegistry) Descriptors() []domain.Descriptor {
	if m.cmd == nil {
		return nil
	}
	return []domain.Descriptor{m.cmd.Descriptor()}
}

func (m *mockRegistry) CheckCooldown(_, _ string, _ time.Duration) (bool, time.Duration) {
	m.cooldownCalls++
	return m.cooldownOK, m.remaining
}

func groupMessage() *domain.Message {
	return &domain.Message{
		ID:       1,
		ChatID:   "group-1",
		UserID:   "100",
		Username: "@alice",
		Text:     "!ping",
		IsGroup:  true,
	}
}

func privateMessage() *domain.Message {
	return &domain.Message{
		ID:     1,
		ChatID: "100",
		UserID: "100",
		Text:   "!ping",
	}
}
