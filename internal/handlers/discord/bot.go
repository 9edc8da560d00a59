package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/services/binding"
	"github.com/bwmarrin/discordgo"
)

// maxMessageLength is Discord's limit for message content
const maxMessageLength = 2000

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	steamCmd   *SteamCommand
	bindings   *binding.Registry
	logger     *slog.Logger
	config     *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// SteamCommand handles /steam
	SteamCommand *SteamCommand

	// Bindings is updated when members leave a guild
	Bindings *binding.Registry

	Logger *slog.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.SteamCommand == nil {
		return nil, errors.New("steam command cannot be nil")
	}

	if cfg.Bindings == nil {
		return nil, errors.New("bindings cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		steamCmd:   cfg.SteamCommand,
		bindings:   cfg.Bindings,
		logger:     logger,
		config:     cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMemberRemove)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(b.steamCmd); err != nil {
		return fmt.Errorf("failed to register steam command: %w", err)
	}

	b.logger.Info("bot is now running")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID, guildID := b.commandScope()

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command", "command", cmdName, "command_id", cmdID, "err", err)
		} else {
			b.logger.Info("deleted command", "command", cmdName, "command_id", cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID, guildID := b.commandScope()

	if guildID != "" {
		b.logger.Info("registering command for guild", "command", cmd.GetName(), "guild_id", guildID)
	} else {
		b.logger.Info("registering command globally", "command", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command", "command", cmd.GetName(), "command_id", createdCmd.ID)

	return nil
}

// commandScope returns the application and guild commands are registered under.
// An empty guild registers globally.
func (b *Bot) commandScope() (string, string) {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}
	return appID, b.config.GuildID
}

// Send posts a payload into its channel, attaching the image when present
func (b *Bot) Send(ctx context.Context, payload *models.OutboundPayload) error {
	if payload == nil {
		return nil
	}

	msg := &discordgo.MessageSend{
		Content: truncate(payload.Text, maxMessageLength),
	}
	if len(payload.Image) > 0 {
		msg.Files = []*discordgo.File{
			{
				Name:        "steam_status.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(payload.Image),
			},
		}
	}

	if _, err := b.session.ChannelMessageSendComplex(payload.GroupID, msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send to channel %s: %w", payload.GroupID, err)
	}
	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	if h, ok := b.commands[name]; ok {
		if err := h.Handle(s, i); err != nil {
			b.logger.Error("error handling command", "command", name, "err", err)
		}
	}
}

// handleMemberRemove unbinds a departed member from every channel of the guild they left
func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.User == nil {
		return
	}

	channelIDs, err := b.guildChannelIDs(s, m.GuildID)
	if err != nil {
		b.logger.Error("failed to list guild channels", "guild_id", m.GuildID, "err", err)
		return
	}

	removed := b.bindings.RemoveMember(m.User.ID, channelIDs)
	if len(removed) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := b.bindings.Save(ctx); err != nil {
		b.logger.Error("failed to save bindings after member left", "guild_id", m.GuildID, "err", err)
		return
	}

	b.logger.Info("unbound departed member", "guild_id", m.GuildID, "member_id", m.User.ID, "channels", len(removed))
}

func (b *Bot) guildChannelIDs(s *discordgo.Session, guildID string) ([]string, error) {
	var channels []*discordgo.Channel
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Channels) > 0 {
		channels = guild.Channels
	} else {
		channels, err = s.GuildChannels(guildID)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	return ids, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
