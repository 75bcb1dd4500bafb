package service

import (
	"context"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

// MembershipService reacts to participant join/leave events: it drops
// the stale roster cache entry for the chat and sends the group's
// greeting when one is enabled.
type MembershipService struct {
	groups *GroupService
	auth   Authorizer
	sender port.TextSender
}

func NewMembershipService(groups *GroupService, auth Authorizer, sender port.TextSender) *MembershipService {
	return &MembershipService{groups: groups, auth: auth, sender: sender}
}

func (s *MembershipService) HandleJoin(ctx context.Context, chatID, userID string) {
	s.auth.Invalidate(chatID)

	group, err := s.groups.GetOrCreate(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Str("chatID", chatID).Msg("failed to load group for join event")
		return
	}

	if !group.Welcome.Enabled {
		return
	}

	s.greet(ctx, chatID, userID, group.Welcome.Message)
}

func (s *MembershipService) HandleLeave(ctx context.Context, chatID, userID string) {
	s.auth.Invalidate(chatID)

	group, err := s.groups.GetOrCreate(ctx, chatID)
	if err != nil {
		log.Error().Err(err).Str("chatID", chatID).Msg("failed to load group for leave event")
		return
	}

	if !group.Goodbye.Enabled {
		return
	}

	s.greet(ctx, chatID, userID, group.Goodbye.Message)
}

func (s *MembershipService) greet(ctx context.Context, chatID, userID, template string) {
	text := strings.ReplaceAll(template, "@user", "@"+domain.LocalPart(userID))

	if _, err := s.sender.SendText(ctx, chatID, text); err != nil {
		log.Warn().Err(err).Str("chatID", chatID).Msg("failed to send greeting")
	}
}
