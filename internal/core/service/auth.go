package service

import (
	"context"
	"errors"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	// GetUserAuthorization resolves a user's standing in a chat. chatID
	// is empty for private chats, where only the owner list is checked.
	GetUserAuthorization(ctx context.Context, chatID, userID string) domain.UserAuthorization
	// GetBotAuthorization resolves the bot's own standing in a group chat.
	GetBotAuthorization(ctx context.Context, chatID string) domain.BotAuthorization
	// Invalidate drops the cached roster for a chat.
	Invalidate(chatID string)
	// InvalidateAll drops every cached roster.
	InvalidateAll()
}

const DefaultRosterTTL = 5 * time.Minute

type rosterEntry struct {
	roster    *domain.Roster
	fetchedAt time.Time
}

// RosterAuthorizer derives authorization from the static owner list and
// a time-bound cache of group rosters fetched from the transport.
// Resolution never fails: a roster that cannot be fetched degrades to
// the zero-privilege result.
type RosterAuthorizer struct {
	fetcher port.RosterFetcher
	owners  []string
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]rosterEntry
	now   func() time.Time
}

func NewRosterAuthorizer(fetcher port.RosterFetcher) (*RosterAuthorizer, error) {
	var owners []string

	err := viper.UnmarshalKey("bot.owners", &owners)
	if err != nil {
		return nil, errors.New("failed to load owner list")
	}

	ttl := viper.GetDuration("auth.cache_ttl")
	if ttl <= 0 {
		ttl = DefaultRosterTTL
	}

	return &RosterAuthorizer{
		fetcher: fetcher,
		owners:  owners,
		ttl:     ttl,
		cache:   make(map[string]rosterEntry),
		now:     time.Now,
	}, nil
}

func (a *RosterAuthorizer) GetUserAuthorization(ctx context.Context, chatID, userID string) domain.UserAuthorization {
	isOwner := a.isOwner(userID)

	if chatID == "" {
		return domain.UserAuthorization{IsOwner: isOwner}
	}

	if isOwner {
		return domain.UserAuthorization{IsOwner: true, IsAdmin: true, IsSuperAdmin: true}
	}

	roster, err := a.roster(ctx, chatID)
	if err != nil {
		log.Warn().Err(err).Str("chatID", chatID).Msg("roster unavailable, denying privileges")
		return domain.UserAuthorization{}
	}

	participant, ok := roster.Find(userID)
	if !ok {
		return domain.UserAuthorization{}
	}

	return domain.UserAuthorization{
		IsAdmin:      participant.Role == domain.RoleAdmin || participant.Role == domain.RoleSuperAdmin,
		IsSuperAdmin: participant.Role == domain.RoleSuperAdmin,
	}
}

func (a *RosterAuthorizer) GetBotAuthorization(ctx context.Context, chatID string) domain.BotAuthorization {
	if chatID == "" {
		return domain.BotAuthorization{}
	}

	roster, err := a.roster(ctx, chatID)
	if err != nil {
		log.Warn().Err(err).Str("chatID", chatID).Msg("roster unavailable, denying bot privileges")
		return domain.BotAuthorization{}
	}

	participant, ok := roster.Find(a.fetcher.BotID())
	if !ok {
		return domain.BotAuthorization{}
	}

	return domain.BotAuthorization{
		IsAdmin:      participant.Role == domain.RoleAdmin || participant.Role == domain.RoleSuperAdmin,
		IsSuperAdmin: participant.Role == domain.RoleSuperAdmin,
	}
}

func (a *RosterAuthorizer) Invalidate(chatID string) {
	a.mu.Lock()
	delete(a.cache, chatID)
	a.mu.Unlock()

	log.Debug().Str("chatID", chatID).Msg("invalidated roster cache entry")
}

func (a *RosterAuthorizer) InvalidateAll() {
	a.mu.Lock()
	a.cache = make(map[string]rosterEntry)
	a.mu.Unlock()

	log.Debug().Msg("invalidated roster cache")
}

func (a *RosterAuthorizer) isOwner(userID string) bool {
	for _, owner := range a.owners {
		if owner == userID || owner == domain.LocalPart(userID) {
			return true
		}
	}
	return false
}

// roster returns the cached snapshot for chatID if it is younger than
// the TTL, fetching a fresh one otherwise. The fetch happens outside
// the lock; overlapping dispatches may fetch the same roster twice,
// which is wasteful but harmless.
func (a *RosterAuthorizer) roster(ctx context.Context, chatID string) (*domain.Roster, error) {
	a.mu.Lock()
	entry, ok := a.cache[chatID]
	now := a.now()
	a.mu.Unlock()

	if ok && now.Sub(entry.fetchedAt) < a.ttl {
		return entry.roster, nil
	}

	roster, err := a.fetcher.FetchRoster(ctx, chatID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[chatID] = rosterEntry{roster: roster, fetchedAt: a.now()}
	a.mu.Unlock()

	return roster, nil
}
