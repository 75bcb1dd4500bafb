package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Verdict is the outcome of one abuse-window evaluation.
type Verdict int

const (
	VerdictAllowed Verdict = iota
	VerdictFirstWarning
	VerdictFinalWarning
	VerdictEnforce
)

const (
	AbuseSweepInterval = time.Minute
	AbuseRetention     = 5 * time.Minute
)

type abuseEntry struct {
	timestamps []time.Time
	warnings   int
}

// AbuseTracker keeps a sliding window of recent message timestamps per
// (chat, user) and an escalating warning counter. It only decides; the
// caller is responsible for messaging and removal.
type AbuseTracker struct {
	mu        sync.Mutex
	entries   map[string]*abuseEntry
	retention time.Duration
	now       func() time.Time
}

func NewAbuseTracker() *AbuseTracker {
	return &AbuseTracker{
		entries:   make(map[string]*abuseEntry),
		retention: AbuseRetention,
		now:       time.Now,
	}
}

// Evaluate prunes the user's window, records the new message and
// returns the resulting verdict. maxMessages is the number of messages
// tolerated within the window; the counter escalates on every further
// violation and only a successful removal (Reset) clears it.
func (t *AbuseTracker) Evaluate(chatID, userID string, maxMessages int, window time.Duration) Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := chatID + ":" + userID
	now := t.now()

	entry, ok := t.entries[key]
	if !ok {
		entry = &abuseEntry{}
		t.entries[key] = entry
	}

	kept := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	entry.timestamps = append(kept, now)

	if len(entry.timestamps) <= maxMessages {
		return VerdictAllowed
	}

	entry.warnings++

	switch entry.warnings {
	case 1:
		return VerdictFirstWarning
	case 2:
		return VerdictFinalWarning
	default:
		return VerdictEnforce
	}
}

// Reset clears the entry for a user, returning the key to a clean
// state. Called after a successful removal.
func (t *AbuseTracker) Reset(chatID, userID string) {
	t.mu.Lock()
	delete(t.entries, chatID+":"+userID)
	t.mu.Unlock()
}

// Run sweeps entries whose newest timestamp is older than the retention
// horizon until ctx is done, bounding memory for inactive users.
func (t *AbuseTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(AbuseSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-ctx.Done():
			log.Debug().Msg("stopping abuse tracker sweep")
			return
		}
	}
}

func (t *AbuseTracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, entry := range t.entries {
		stale := true
		for _, ts := range entry.timestamps {
			if now.Sub(ts) <= t.retention {
				stale = false
				break
			}
		}
		if stale {
			delete(t.entries, key)
		}
	}
}
