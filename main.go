package main

import (
	"context"
	"gatebot/internal/adapters/handler"
	"gatebot/internal/adapters/sender"
	"gatebot/internal/adapters/store"
	"gatebot/internal/core/domain/command"
	"gatebot/internal/core/domain/commands"
	"gatebot/internal/core/pipeline"
	"gatebot/internal/core/port"
	"gatebot/internal/core/service"
	"os"
	"os/signal"

	"github.com/go-telegram/bot/models"

	"github.com/rs/zerolog"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	defaultPrefix      = "!"
	defaultStoragePath = "data/store.json"
)

func main() {
	log.Info().Msg("starting gatebot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")

	var updates *handler.TelegramHandler
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if updates != nil {
				updates.Handle(ctx, b, update)
			}
		}),
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "chat_member"}),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		log.Panic().Err(err).Msg("failed fetching bot identity")
	}

	s := sender.NewTelegramSender(b, me.ID)

	storagePath := viper.GetString("storage.path")
	if storagePath == "" {
		storagePath = defaultStoragePath
	}

	st, err := store.NewJSONStore(storagePath)
	if err != nil {
		log.Panic().Err(err).Msg("failed opening store")
	}

	users := service.NewUserService(st)
	groups := service.NewGroupService(st)

	auth, err := service.NewRosterAuthorizer(s)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}

	tracker := service.NewAbuseTracker()
	membership := service.NewMembershipService(groups, auth, s)

	prefix := viper.GetString("bot.prefix")
	if prefix == "" {
		prefix = defaultPrefix
	}

	registry := command.NewRegistry()

	mustRegister(registry, commands.NewPingHandler(s, s))
	mustRegister(registry, commands.NewHelpHandler(registry, s, prefix))
	mustRegister(registry, commands.NewProfileHandler(users, s))
	mustRegister(registry, commands.NewWelcomeHandler(groups, s, prefix))
	mustRegister(registry, commands.NewGoodbyeHandler(groups, s, prefix))

	stages := pipeline.New(
		pipeline.RecordKeeping(users, groups),
		pipeline.Logging(),
		pipeline.Validation(s),
		pipeline.Authorization(s),
		pipeline.AbuseCheck(tracker, groups, s, s),
		pipeline.Cooldown(registry, s),
	)

	dispatcher := pipeline.NewDispatcher(registry, auth, stages, s, prefix)
	updates = handler.NewTelegramHandler(dispatcher, membership)

	go tracker.Run(ctx)
	go registry.SweepCooldowns(ctx, command.CooldownSweepInterval)

	log.Info().Str("botID", me.Username).Msg("bot listening")
	b.Start(ctx)
}

func mustRegister(registry port.CommandRegistry, cmd port.Command) {
	if err := registry.Register(cmd); err != nil {
		log.Panic().Err(err).Str("command", cmd.Descriptor().Name).Msg("failed registering command")
	}
}
