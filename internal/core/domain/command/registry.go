package command

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CooldownSweepInterval is how often the background sweep prunes the
// cooldown ledger.
const CooldownSweepInterval = time.Minute

// Registry maps command names and aliases to handlers and owns the
// per-command, per-user cooldown ledger. All methods are safe for
// concurrent use.
type Registry struct {
	mu        sync.Mutex
	commands  map[string]port.Command
	aliases   map[string]string
	cooldowns map[string]map[string]time.Time

	now func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]port.Command),
		aliases:   make(map[string]string),
		cooldowns: make(map[string]map[string]time.Time),
		now:       time.Now,
	}
}

func (r *Registry) Register(handler port.Command) error {
	desc := handler.Descriptor()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Last writer wins for the name itself, but the replaced
	// registration's aliases must not linger.
	if _, ok := r.commands[desc.Name]; ok {
		log.Warn().Str("command", desc.Name).Msg("re-registering command, replacing previous handler")
		for alias, name := range r.aliases {
			if name == desc.Name {
				delete(r.aliases, alias)
			}
		}
	}

	for _, alias := range desc.Aliases {
		if owner, ok := r.aliases[alias]; ok && owner != desc.Name {
			return fmt.Errorf("registering %q: alias %q: %w", desc.Name, alias, domain.ErrAliasConflict)
		}
		if _, ok := r.commands[alias]; ok && alias != desc.Name {
			return fmt.Errorf("registering %q: alias %q: %w", desc.Name, alias, domain.ErrAliasConflict)
		}
	}

	log.Info().Str("command", desc.Name).Strs("aliases", desc.Aliases).Msg("adding command handler to registry")

	r.commands[desc.Name] = handler
	for _, alias := range desc.Aliases {
		r.aliases[alias] = desc.Name
	}

	return nil
}

func (r *Registry) Resolve(nameOrAlias string) (port.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := nameOrAlias
	if canonical, ok := r.aliases[nameOrAlias]; ok {
		name = canonical
	}

	handler, ok := r.commands[name]
	if !ok {
		return nil, domain.ErrCommandNotFound
	}

	return handler, nil
}

func (r *Registry) Descriptors() []domain.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	descs := make([]domain.Descriptor, 0, len(r.commands))
	for _, handler := range r.commands {
		descs = append(descs, handler.Descriptor())
	}

	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })

	return descs
}

// CheckCooldown records a use of commandName by userID if no cooldown
// is pending. Expiry is lazy: a stale entry is dropped the next time it
// is consulted.
func (r *Registry) CheckCooldown(commandName, userID string, d time.Duration) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	users, ok := r.cooldowns[commandName]
	if !ok {
		users = make(map[string]time.Time)
		r.cooldowns[commandName] = users
	}

	if expiry, ok := users[userID]; ok {
		if now.Before(expiry) {
			return false, expiry.Sub(now)
		}
		delete(users, userID)
	}

	users[userID] = now.Add(d)

	return true, 0
}

// SweepCooldowns drops expired ledger entries on the given interval
// until ctx is done. Lazy expiry already keeps lookups correct; the
// sweep bounds memory for users who never return.
func (r *Registry) SweepCooldowns(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-ctx.Done():
			log.Debug().Msg("stopping cooldown sweep")
			return
		}
	}
}

func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for name, users := range r.cooldowns {
		for userID, expiry := range users {
			if !now.Before(expiry) {
				delete(users, userID)
			}
		}
		if len(users) == 0 {
			delete(r.cooldowns, name)
		}
	}
}

// Parse splits an inbound message into its command token and arguments.
// It returns an empty command when the text does not start with the
// given prefix.
func Parse(text, prefix string) (string, []string) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", nil
	}

	fields := strings.Fields(strings.TrimPrefix(text, prefix))
	if len(fields) == 0 {
		return "", nil
	}

	return strings.ToLower(fields[0]), fields[1:]
}
