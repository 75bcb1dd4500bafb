package service

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"math"
	"time"
)

const usersCollection = "users"

// UserService maintains persisted user records: identity, activity
// counters and leveling state.
type UserService struct {
	store port.Store
	now   func() time.Time
}

func NewUserService(store port.Store) *UserService {
	return &UserService{store: store, now: time.Now}
}

func (s *UserService) GetOrCreate(ctx context.Context, id string) (domain.User, error) {
	var user domain.User

	found, err := s.store.Get(ctx, usersCollection, id, &user)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching user %s: %w", id, err)
	}
	if found {
		return user, nil
	}

	now := s.now().UnixMilli()
	user = domain.User{
		ID:        id,
		Name:      "User",
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Set(ctx, usersCollection, id, user); err != nil {
		return domain.User{}, fmt.Errorf("creating user %s: %w", id, err)
	}

	return user, nil
}

// Touch refreshes the user's display name and activity timestamp,
// creating the record if needed.
func (s *UserService) Touch(ctx context.Context, id, name string) error {
	if _, err := s.GetOrCreate(ctx, id); err != nil {
		return err
	}

	fields := map[string]any{"updatedAt": s.now().UnixMilli()}
	if name != "" {
		fields["name"] = name
	}

	return s.store.Update(ctx, usersCollection, id, fields)
}

func (s *UserService) IncrementCommands(ctx context.Context, id string) error {
	user, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, usersCollection, id, map[string]any{
		"commands":  user.Commands + 1,
		"updatedAt": s.now().UnixMilli(),
	})
}

// AddXP awards experience and recomputes the level, returning the
// updated record.
func (s *UserService) AddXP(ctx context.Context, id string, amount int) (domain.User, error) {
	user, err := s.GetOrCreate(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.XP += amount
	user.Level = LevelForXP(user.XP)
	user.UpdatedAt = s.now().UnixMilli()

	if err := s.store.Set(ctx, usersCollection, id, user); err != nil {
		return domain.User{}, fmt.Errorf("updating xp for user %s: %w", id, err)
	}

	return user, nil
}

func (s *UserService) Ban(ctx context.Context, id string) error {
	if _, err := s.GetOrCreate(ctx, id); err != nil {
		return err
	}
	return s.store.Update(ctx, usersCollection, id, map[string]any{"banned": true})
}

func (s *UserService) Unban(ctx context.Context, id string) error {
	if _, err := s.GetOrCreate(ctx, id); err != nil {
		return err
	}
	return s.store.Update(ctx, usersCollection, id, map[string]any{"banned": false, "warnings": 0})
}

func LevelForXP(xp int) int {
	return int(math.Sqrt(float64(xp)/100)) + 1
}

func RequiredXP(level int) int {
	return level * level * 100
}
