package domain

import (
	"strings"
	"time"
)

// Message is the transport-agnostic view of one inbound chat message.
type Message struct {
	ID       int
	ChatID   string
	UserID   string
	Username string
	Text     string
	IsGroup  bool
}

// Role is a participant's standing within a group roster.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

type Participant struct {
	ID   string
	Role Role
}

// Roster is a snapshot of a group chat's membership as reported by the
// transport. Participants missing from it carry no privileges.
type Roster struct {
	ChatID       string
	Participants []Participant
}

// Find returns the participant matching the given identifier, by full
// identifier or by its local part.
func (r *Roster) Find(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id || LocalPart(p.ID) == LocalPart(id) {
			return p, true
		}
	}
	return Participant{}, false
}

// LocalPart strips the host portion of a chat identifier, if any.
func LocalPart(id string) string {
	local, _, _ := strings.Cut(id, "@")
	return local
}

type UserAuthorization struct {
	IsOwner      bool
	IsAdmin      bool
	IsSuperAdmin bool
}

type BotAuthorization struct {
	IsAdmin      bool
	IsSuperAdmin bool
}

// PermissionLevel is the minimum user standing a command requires.
type PermissionLevel int

const (
	PermissionUser PermissionLevel = iota
	PermissionAdmin
	PermissionOwner
)

// BotCapability is a capability the bot itself must hold in a chat for
// a command to run there.
type BotCapability string

const (
	CapabilityNone  BotCapability = ""
	CapabilityAdmin BotCapability = "admin"
)

// ChatContext restricts where a command may be invoked.
type ChatContext string

const (
	ContextGroup   ChatContext = "group"
	ContextPrivate ChatContext = "private"
	ContextBoth    ChatContext = "both"
)

type Category string

const (
	CategoryUtility    Category = "utility"
	CategoryAdmin      Category = "admin"
	CategoryModeration Category = "moderation"
)

const DefaultCooldown = 3 * time.Second

// Descriptor is the immutable registration record of a command.
type Descriptor struct {
	Name          string
	Aliases       []string
	Description   string
	Usage         string
	Category      Category
	Permission    PermissionLevel
	BotCapability BotCapability
	Context       ChatContext
	Cooldown      time.Duration
}

// CooldownOrDefault returns the descriptor's cooldown, falling back to
// DefaultCooldown when none was set.
func (d Descriptor) CooldownOrDefault() time.Duration {
	if d.Cooldown <= 0 {
		return DefaultCooldown
	}
	return d.Cooldown
}

// User is the persisted record of a known sender.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Banned    bool   `json:"banned"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	Commands  int    `json:"commands"`
	Warnings  int    `json:"warnings"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type GreetingSettings struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

type AntiSpamSettings struct {
	Enabled       bool `json:"enabled"`
	MaxMessages   int  `json:"maxMessages"`
	WindowSeconds int  `json:"windowSeconds"`
}

// Group is the persisted record of a group chat and its settings.
type Group struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Welcome   GreetingSettings `json:"welcome"`
	Goodbye   GreetingSettings `json:"goodbye"`
	AntiSpam  AntiSpamSettings `json:"antiSpam"`
	Commands  int              `json:"commands"`
	CreatedAt int64            `json:"createdAt"`
	UpdatedAt int64            `json:"updatedAt"`
}
