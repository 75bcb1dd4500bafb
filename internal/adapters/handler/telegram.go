package handler

import (
	"context"
	"gatebot/internal/core/domain"
	"gatebot/internal/core/pipeline"
	"gatebot/internal/core/service"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// TelegramHandler translates Telegram updates into domain events:
// message updates feed the dispatcher, chat-member updates feed the
// membership service.
type TelegramHandler struct {
	dispatcher *pipeline.Dispatcher
	membership *service.MembershipService
}

func NewTelegramHandler(dispatcher *pipeline.Dispatcher, membership *service.MembershipService) *TelegramHandler {
	return &TelegramHandler{dispatcher: dispatcher, membership: membership}
}

func (h *TelegramHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	switch {
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	case update.ChatMember != nil:
		h.handleMembership(ctx, update.ChatMember)
	}
}

func (h *TelegramHandler) handleMessage(ctx context.Context, m *models.Message) {
	msg := toDomainMessage(m)
	if msg == nil {
		return
	}

	log.Debug().Str("chatID", msg.ChatID).Str("userID", msg.UserID).Msg("received message")

	go h.dispatcher.Dispatch(ctx, msg)
}

func (h *TelegramHandler) handleMembership(ctx context.Context, cm *models.ChatMemberUpdated) {
	user := memberUser(cm.NewChatMember)
	if user == nil {
		return
	}

	chatID := strconv.FormatInt(cm.Chat.ID, 10)
	userID := strconv.FormatInt(user.ID, 10)

	wasIn := isActiveMember(cm.OldChatMember)
	isIn := isActiveMember(cm.NewChatMember)

	switch {
	case isIn && !wasIn:
		log.Info().Str("chatID", chatID).Str("userID", userID).Msg("participant joined")
		go h.membership.HandleJoin(ctx, chatID, userID)
	case wasIn && !isIn:
		log.Info().Str("chatID", chatID).Str("userID", userID).Msg("participant left")
		go h.membership.HandleLeave(ctx, chatID, userID)
	}
}

// toDomainMessage converts a Telegram message to the transport-agnostic
// form, or nil for updates without a sender.
func toDomainMessage(m *models.Message) *domain.Message {
	if m.From == nil {
		return nil
	}

	text := m.Text
	if text == "" {
		text = m.Caption
	}

	return &domain.Message{
		ID:       m.ID,
		ChatID:   strconv.FormatInt(m.Chat.ID, 10),
		UserID:   strconv.FormatInt(m.From.ID, 10),
		Username: displayName(m.From),
		Text:     text,
		IsGroup:  m.Chat.Type == models.ChatTypeGroup || m.Chat.Type == models.ChatTypeSupergroup,
	}
}

func displayName(user *models.User) string {
	if user.Username == "" {
		return user.FirstName
	}
	return "@" + user.Username
}

// memberUser extracts the affected user from a chat member union.
func memberUser(member models.ChatMember) *models.User {
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return member.Owner.User
	case models.ChatMemberTypeAdministrator:
		return &member.Administrator.User
	case models.ChatMemberTypeMember:
		return member.Member.User
	case models.ChatMemberTypeRestricted:
		return member.Restricted.User
	case models.ChatMemberTypeLeft:
		return member.Left.User
	case models.ChatMemberTypeBanned:
		return member.Banned.User
	default:
		return nil
	}
}

// isActiveMember reports whether a chat member union describes someone
// currently in the chat.
func isActiveMember(member models.ChatMember) bool {
	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	case models.ChatMemberTypeRestricted:
		return member.Restricted.IsMember
	default:
		return false
	}
}
