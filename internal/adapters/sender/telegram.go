package sender

import (
	"context"
	"fmt"
	"gatebot/internal/core/domain"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name TelegramBot

// Telegram rejects messages beyond this length; longer texts are split.
const TelegramMessageLimit = 4096

// TelegramBot is the slice of the bot API client the sender needs.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SetMessageReaction(ctx context.Context, params *bot.SetMessageReactionParams) (bool, error)
	GetChatAdministrators(ctx context.Context, params *bot.GetChatAdministratorsParams) ([]models.ChatMember, error)
	BanChatMember(ctx context.Context, params *bot.BanChatMemberParams) (bool, error)
}

// TelegramSender adapts the Telegram Bot API to the transport ports:
// sending, reactions, roster lookups and participant removal.
type TelegramSender struct {
	bot   TelegramBot
	botID string
}

func NewTelegramSender(b TelegramBot, botID int64) *TelegramSender {
	return &TelegramSender{bot: b, botID: strconv.FormatInt(botID, 10)}
}

func (s *TelegramSender) SendText(ctx context.Context, chatID string, text string) (int, error) {
	return s.send(ctx, chatID, text, nil)
}

func (s *TelegramSender) SendReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	return s.send(ctx, message.ChatID, text, &models.ReplyParameters{
		MessageID: message.ID,
		ChatID:    telegramChatID(message.ChatID),
	})
}

// send transmits text in limit-sized chunks, replying only with the
// first chunk, and returns the last sent message ID.
func (s *TelegramSender) send(ctx context.Context, chatID, text string,
	reply *models.ReplyParameters) (int, error) {
	var lastID int

	for _, chunk := range chunks(text, TelegramMessageLimit) {
		msg, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          telegramChatID(chatID),
			Text:            chunk,
			ReplyParameters: reply,
		})
		if err != nil {
			return 0, fmt.Errorf("sending message to chat %s: %w", chatID, err)
		}

		lastID = msg.ID
		reply = nil
	}

	return lastID, nil
}

func (s *TelegramSender) SendReaction(ctx context.Context, message *domain.Message, emoji string) error {
	_, err := s.bot.SetMessageReaction(ctx, &bot.SetMessageReactionParams{
		ChatID:    telegramChatID(message.ChatID),
		MessageID: message.ID,
		Reaction: []models.ReactionType{
			{
				Type:              models.ReactionTypeTypeEmoji,
				ReactionTypeEmoji: &models.ReactionTypeEmoji{Type: "emoji", Emoji: emoji},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("reacting in chat %s: %w", message.ChatID, err)
	}

	return nil
}

// FetchRoster maps the chat's administrator list to a roster snapshot.
// Telegram only enumerates privileged members, which is all the
// authorization resolver needs; everyone absent is a plain member.
func (s *TelegramSender) FetchRoster(ctx context.Context, chatID string) (*domain.Roster, error) {
	admins, err := s.bot.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{
		ChatID: telegramChatID(chatID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching administrators of chat %s: %w", chatID, err)
	}

	roster := &domain.Roster{ChatID: chatID}

	for _, member := range admins {
		switch member.Type {
		case models.ChatMemberTypeOwner:
			roster.Participants = append(roster.Participants, domain.Participant{
				ID:   strconv.FormatInt(member.Owner.User.ID, 10),
				Role: domain.RoleSuperAdmin,
			})
		case models.ChatMemberTypeAdministrator:
			roster.Participants = append(roster.Participants, domain.Participant{
				ID:   strconv.FormatInt(member.Administrator.User.ID, 10),
				Role: domain.RoleAdmin,
			})
		default:
			log.Debug().Str("chatID", chatID).Msg("skipping non-privileged roster entry")
		}
	}

	return roster, nil
}

func (s *TelegramSender) BotID() string {
	return s.botID
}

func (s *TelegramSender) RemoveParticipant(ctx context.Context, chatID, userID string) error {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing user id %s: %w", userID, err)
	}

	ok, err := s.bot.BanChatMember(ctx, &bot.BanChatMemberParams{
		ChatID: telegramChatID(chatID),
		UserID: id,
	})
	if err != nil {
		return fmt.Errorf("removing user %s from chat %s: %w", userID, chatID, err)
	}
	if !ok {
		return fmt.Errorf("removing user %s from chat %s: refused", userID, chatID)
	}

	return nil
}

// telegramChatID converts the domain's string identifier back to the
// numeric form the API expects, passing usernames through untouched.
func telegramChatID(chatID string) any {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return id
	}
	return chatID
}

func chunks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var out []string
	for len(text) > limit {
		out = append(out, text[:limit])
		text = text[limit:]
	}

	return append(out, text)
}
