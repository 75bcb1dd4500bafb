package commands

import (
	"context"
	"gatebot/internal/core/domain"
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

type mockReactor struct {
	reactions []string
	reactErr  error
}

func (m *mockReactor) SendReaction(_ context.Context, _ *domain.Message, emoji string) error {
	if m.reactErr != nil {
		return m.reactErr
	}
	m.reactions = append(m.reactions, emoji)
	return nil
}

func groupDispatch(args ...string) *domain.DispatchContext {
	return &domain.DispatchContext{
		Message: &domain.Message{
			ID:       1,
			ChatID:   "group-1",
			UserID:   "100",
			Username: "@alice",
			IsGroup:  true,
		},
		Args: args,
	}
}
