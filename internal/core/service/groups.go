package service

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"time"

	"github.com/spf13/viper"
)

const groupsCollection = "groups"

const (
	DefaultWelcomeMessage = "Welcome to the group, @user!"
	DefaultGoodbyeMessage = "Goodbye @user, hope to see you again."

	defaultAbuseMaxMessages   = 10
	defaultAbuseWindowSeconds = 60
)

// GroupService maintains persisted group records and their per-chat
// settings (greetings, anti-spam).
type GroupService struct {
	store port.Store
	now   func() time.Time
}

func NewGroupService(store port.Store) *GroupService {
	return &GroupService{store: store, now: time.Now}
}

func (s *GroupService) GetOrCreate(ctx context.Context, id string) (domain.Group, error) {
	var group domain.Group

	found, err := s.store.Get(ctx, groupsCollection, id, &group)
	if err != nil {
		return domain.Group{}, fmt.Errorf("fetching group %s: %w", id, err)
	}
	if found {
		return group, nil
	}

	maxMessages := viper.GetInt("abuse.max_messages")
	if maxMessages <= 0 {
		maxMessages = defaultAbuseMaxMessages
	}
	windowSeconds := viper.GetInt("abuse.window_seconds")
	if windowSeconds <= 0 {
		windowSeconds = defaultAbuseWindowSeconds
	}

	now := s.now().UnixMilli()
	group = domain.Group{
		ID:      id,
		Welcome: domain.GreetingSettings{Enabled: true, Message: DefaultWelcomeMessage},
		Goodbye: domain.GreetingSettings{Message: DefaultGoodbyeMessage},
		AntiSpam: domain.AntiSpamSettings{
			Enabled:       true,
			MaxMessages:   maxMessages,
			WindowSeconds: windowSeconds,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Set(ctx, groupsCollection, id, group); err != nil {
		return domain.Group{}, fmt.Errorf("creating group %s: %w", id, err)
	}

	return group, nil
}

func (s *GroupService) IncrementCommands(ctx context.Context, id string) error {
	group, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, groupsCollection, id, map[string]any{
		"commands":  group.Commands + 1,
		"updatedAt": s.now().UnixMilli(),
	})
}

// SetWelcome updates the welcome settings; an empty message keeps the
// current one.
func (s *GroupService) SetWelcome(ctx context.Context, id string, enabled bool, message string) error {
	group, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	group.Welcome.Enabled = enabled
	if message != "" {
		group.Welcome.Message = message
	}
	group.UpdatedAt = s.now().UnixMilli()

	return s.store.Set(ctx, groupsCollection, id, group)
}

// SetGoodbye updates the goodbye settings; an empty message keeps the
// current one.
func (s *GroupService) SetGoodbye(ctx context.Context, id string, enabled bool, message string) error {
	group, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	group.Goodbye.Enabled = enabled
	if message != "" {
		group.Goodbye.Message = message
	}
	group.UpdatedAt = s.now().UnixMilli()

	return s.store.Set(ctx, groupsCollection, id, group)
}

// SetAntiSpam toggles abuse tracking for the chat.
func (s *GroupService) SetAntiSpam(ctx context.Context, id string, enabled bool) error {
	group, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	group.AntiSpam.Enabled = enabled
	group.UpdatedAt = s.now().UnixMilli()

	return s.store.Set(ctx, groupsCollection, id, group)
}
