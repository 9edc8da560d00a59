package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/clients/steam"
	"github.com/KirkDiggler/steamwatch/internal/models"
	groupRepo "github.com/KirkDiggler/steamwatch/internal/repositories/group"
	"github.com/KirkDiggler/steamwatch/internal/services/binding"
	"github.com/KirkDiggler/steamwatch/internal/services/broadcast"
	"github.com/KirkDiggler/steamwatch/internal/services/mute"
	"github.com/KirkDiggler/steamwatch/internal/services/poller"
	"github.com/KirkDiggler/steamwatch/internal/services/snapshot"
	"github.com/bwmarrin/discordgo"
)

const (
	maxNicknameLength  = 32
	maxGroupNameLength = 64
	maxAttachmentBytes = 8 << 20

	commandTimeout = 30 * time.Second
)

// RosterRenderer draws a group's status board
type RosterRenderer interface {
	RenderRoster(ctx context.Context, input *broadcast.RenderRosterInput) ([]byte, error)
}

// SteamCommandConfig holds the stores the /steam command reads and mutates
type SteamCommandConfig struct {
	Bindings  *binding.Registry
	Mute      *mute.State
	Snapshots *snapshot.Store
	Groups    groupRepo.Repository
	Fetcher   poller.PlayerFetcher
	Roster    RosterRenderer
	Logger    *slog.Logger

	// HTTPClient downloads attachments, defaults to a client with a timeout
	HTTPClient *http.Client
}

// SteamCommand handles the /steam command. Each subcommand works on the
// channel it was invoked in.
type SteamCommand struct {
	BaseCommand
	bindings  *binding.Registry
	mute      *mute.State
	snapshots *snapshot.Store
	groups    groupRepo.Repository
	fetcher   poller.PlayerFetcher
	roster    RosterRenderer
	logger    *slog.Logger
	http      *http.Client
}

// NewSteamCommand creates a new steam command handler
func NewSteamCommand(cfg *SteamCommandConfig) (*SteamCommand, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Bindings == nil || cfg.Mute == nil || cfg.Snapshots == nil {
		return nil, errors.New("bindings, mute and snapshot stores are required")
	}
	if cfg.Groups == nil {
		return nil, errors.New("group repository cannot be nil")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("player fetcher cannot be nil")
	}
	if cfg.Roster == nil {
		return nil, errors.New("roster renderer cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &SteamCommand{
		BaseCommand: BaseCommand{
			Name:        "steam",
			Description: "Track your friends' Steam status in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bind",
					Description: "Bind your Steam account to this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Your 64-bit Steam ID or friend code",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unbind",
					Description: "Unbind your Steam account from this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Show the Steam account you have bound",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check",
					Description: "Show everyone's current Steam status",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Turn on Steam broadcasts in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Turn off Steam broadcasts in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "update",
					Description: "Set the name and picture shown on this channel's status board",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Display name for the status board",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionAttachment,
							Name:        "avatar",
							Description: "Picture for the status board",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "nickname",
					Description: "Set the name broadcasts use for you, leave empty to clear",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Nickname",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "help",
					Description: "List the steam commands",
				},
			},
		},
		bindings:  cfg.Bindings,
		mute:      cfg.Mute,
		snapshots: cfg.Snapshots,
		groups:    cfg.Groups,
		fetcher:   cfg.Fetcher,
		roster:    cfg.Roster,
		logger:    logger,
		http:      httpClient,
	}, nil
}

// userError is a failure whose message is meant for the person who ran the command
type userError string

func (e userError) Error() string {
	return string(e)
}

// Bind binds the member to a Steam ID or friend code, rebinding in place if already bound
func (c *SteamCommand) Bind(ctx context.Context, groupID, memberID, rawID string) (string, error) {
	steamID, err := steam.ResolveSteamID(rawID)
	if err != nil {
		return "", userError("Please provide a valid 64-bit Steam ID or Steam friend code.")
	}

	output, err := c.bindings.Add(&binding.AddInput{
		GroupID:  groupID,
		MemberID: memberID,
		SteamID:  steamID,
	})
	if err != nil {
		var conflict *binding.ConflictError
		if errors.As(err, &conflict) {
			return "", userError(fmt.Sprintf("Steam ID %s is already bound to <@%s> in this channel.", steamID, conflict.OwnerMemberID))
		}
		return "", err
	}

	if err := c.bindings.Save(ctx); err != nil {
		return "", fmt.Errorf("failed to save bindings: %w", err)
	}

	if output.Rebound {
		return fmt.Sprintf("Updated your Steam ID to %s", steamID), nil
	}
	return fmt.Sprintf("Bound your Steam ID %s", steamID), nil
}

// Unbind removes the member's binding in the group
func (c *SteamCommand) Unbind(ctx context.Context, groupID, memberID string) (string, error) {
	if err := c.bindings.Remove(groupID, memberID); err != nil {
		if errors.Is(err, binding.ErrNotBound) {
			return "", userError("You have no Steam ID bound in this channel.")
		}
		return "", err
	}

	if err := c.bindings.Save(ctx); err != nil {
		return "", fmt.Errorf("failed to save bindings: %w", err)
	}

	return "Unbound your Steam ID", nil
}

// Info describes the member's binding
func (c *SteamCommand) Info(groupID, memberID string) (string, error) {
	b, err := c.bindings.Get(groupID, memberID)
	if err != nil {
		if errors.Is(err, binding.ErrNotBound) {
			return "", userError("You have no Steam ID bound in this channel. Use `/steam bind` to add one.")
		}
		return "", err
	}

	code, err := steam.FriendCode(b.SteamID)
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("Your Steam ID: %s", b.SteamID),
		fmt.Sprintf("Your Steam friend code: %s", code),
	}
	if b.Nickname != nil {
		lines = append(lines, fmt.Sprintf("Your nickname: %s", *b.Nickname))
	}
	return strings.Join(lines, "\n"), nil
}

// Enable turns broadcasts back on for the group
func (c *SteamCommand) Enable(ctx context.Context, groupID string) (string, error) {
	c.mute.Unmute(groupID)
	if err := c.mute.Save(ctx); err != nil {
		return "", fmt.Errorf("failed to save mute state: %w", err)
	}
	return "Steam broadcasts enabled", nil
}

// Disable mutes broadcasts for the group
func (c *SteamCommand) Disable(ctx context.Context, groupID string) (string, error) {
	c.mute.Mute(groupID)
	if err := c.mute.Save(ctx); err != nil {
		return "", fmt.Errorf("failed to save mute state: %w", err)
	}
	return "Steam broadcasts disabled", nil
}

// Nickname sets or clears the member's nickname
func (c *SteamCommand) Nickname(ctx context.Context, groupID, memberID, nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) > maxNicknameLength {
		return "", userError(fmt.Sprintf("Nicknames can be at most %d characters.", maxNicknameLength))
	}

	b, err := c.bindings.SetNickname(&binding.SetNicknameInput{
		GroupID:  groupID,
		MemberID: memberID,
		Nickname: nickname,
	})
	if err != nil {
		if errors.Is(err, binding.ErrNotBound) {
			return "", userError("Bind a Steam ID with `/steam bind` before setting a nickname.")
		}
		return "", err
	}

	if err := c.bindings.Save(ctx); err != nil {
		return "", fmt.Errorf("failed to save bindings: %w", err)
	}

	if b.Nickname == nil {
		return "Cleared your nickname", nil
	}
	return fmt.Sprintf("Your nickname is now %s", *b.Nickname), nil
}

// UpdateProfile stores the group's status board name and picture
func (c *SteamCommand) UpdateProfile(ctx context.Context, groupID, name string, avatar []byte) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(avatar) == 0 {
		return "", userError("Both a name and a picture are required.")
	}
	if len([]rune(name)) > maxGroupNameLength {
		return "", userError(fmt.Sprintf("Names can be at most %d characters.", maxGroupNameLength))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(avatar)); err != nil {
		return "", userError("The picture must be a PNG, JPEG or GIF image.")
	}

	if err := c.groups.SaveProfile(ctx, &groupRepo.SaveProfileInput{
		Profile: &models.GroupProfile{
			GroupID: groupID,
			Name:    name,
			Avatar:  avatar,
		},
	}); err != nil {
		return "", fmt.Errorf("failed to save group profile: %w", err)
	}

	return "Updated this channel's status board", nil
}

// Check fetches the group's players and draws their status board. Players the
// fetch misses are drawn from their last recorded state.
func (c *SteamCommand) Check(ctx context.Context, groupID string) ([]byte, error) {
	ids := c.bindings.PlayerIDs(groupID)
	if len(ids) == 0 {
		return nil, userError("No one in this channel has bound a Steam ID yet.")
	}

	players, err := c.fetcher.FetchPlayers(ctx, ids)
	if err != nil {
		c.logger.Warn("check fetch incomplete, using last known state",
			"group_id", groupID,
			"fetched", len(players),
			"err", err)
	}

	fetched := make(map[string]*models.PlayerState, len(players))
	for _, p := range players {
		fetched[p.SteamID] = p
	}

	roster := make([]*models.PlayerState, 0, len(ids))
	for _, id := range ids {
		if p, ok := fetched[id]; ok {
			roster = append(roster, p)
			continue
		}
		if p, ok := c.snapshots.Get(id); ok {
			roster = append(roster, p)
		}
	}

	return c.roster.RenderRoster(ctx, &broadcast.RenderRosterInput{
		GroupID: groupID,
		Players: roster,
	})
}

// Help lists the subcommands
func (c *SteamCommand) Help() string {
	lines := []string{"**Steam commands**"}
	for _, opt := range c.Options {
		if opt.Name == "help" {
			continue
		}
		lines = append(lines, fmt.Sprintf("`/steam %s` %s", opt.Name, opt.Description))
	}
	return strings.Join(lines, "\n")
}

// Handle processes a Discord interaction for the steam command
func (c *SteamCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	groupID := i.ChannelID
	memberID := interactionUserID(i)
	sub := data.Options[0]
	options := optionMap(sub.Options)

	logger := c.logger.With("group_id", groupID, "subcommand", sub.Name)

	var message string
	var err error
	switch sub.Name {
	case "bind":
		message, err = c.Bind(ctx, groupID, memberID, stringOption(options, "id"))
	case "unbind":
		message, err = c.Unbind(ctx, groupID, memberID)
	case "info":
		message, err = c.Info(groupID, memberID)
		if err == nil {
			return RespondWithEphemeralMessage(s, i, message)
		}
	case "enable":
		message, err = c.Enable(ctx, groupID)
	case "disable":
		message, err = c.Disable(ctx, groupID)
	case "nickname":
		message, err = c.Nickname(ctx, groupID, memberID, stringOption(options, "name"))
	case "update":
		return c.handleUpdate(ctx, s, i, logger, groupID, options)
	case "check":
		return c.handleCheck(ctx, s, i, logger, groupID)
	case "help":
		return RespondWithEphemeralMessage(s, i, c.Help())
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown subcommand %q", sub.Name))
	}

	if err != nil {
		return c.respondError(s, i, logger, err)
	}
	return RespondWithMessage(s, i, message)
}

func (c *SteamCommand) handleCheck(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger, groupID string) error {
	if err := RespondDeferred(s, i); err != nil {
		return err
	}

	png, err := c.Check(ctx, groupID)
	if err != nil {
		var uerr userError
		if errors.As(err, &uerr) {
			return FollowupWithMessage(s, i, uerr.Error())
		}
		logger.Error("check failed", "err", err)
		return FollowupWithMessage(s, i, "Could not draw the status board right now, try again later.")
	}

	return FollowupWithImage(s, i, "steam_status.png", png)
}

func (c *SteamCommand) handleUpdate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger, groupID string, options map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	name := stringOption(options, "name")

	var attachmentURL string
	resolved := i.ApplicationCommandData().Resolved
	if opt, ok := options["avatar"]; ok && resolved != nil {
		if id, ok := opt.Value.(string); ok {
			if att, ok := resolved.Attachments[id]; ok {
				attachmentURL = att.URL
			}
		}
	}
	if attachmentURL == "" {
		return RespondWithError(s, i, "Both a name and a picture are required.")
	}

	if err := RespondDeferred(s, i); err != nil {
		return err
	}

	avatar, err := c.download(ctx, attachmentURL)
	if err != nil {
		logger.Error("failed to download attachment", "err", err)
		return FollowupWithMessage(s, i, "Could not download that picture.")
	}

	message, err := c.UpdateProfile(ctx, groupID, name, avatar)
	if err != nil {
		var uerr userError
		if errors.As(err, &uerr) {
			return FollowupWithMessage(s, i, uerr.Error())
		}
		logger.Error("failed to update profile", "err", err)
		return FollowupWithMessage(s, i, "Something went wrong, try again later.")
	}

	return FollowupWithMessage(s, i, message)
}

func (c *SteamCommand) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, logger *slog.Logger, err error) error {
	var uerr userError
	if errors.As(err, &uerr) {
		return RespondWithError(s, i, uerr.Error())
	}
	logger.Error("steam command failed", "err", err)
	return RespondWithError(s, i, "Something went wrong, try again later.")
}

func (c *SteamCommand) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download status %d", res.StatusCode)
	}

	return io.ReadAll(io.LimitReader(res.Body, maxAttachmentBytes))
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := options[name]; ok && opt != nil {
		return opt.StringValue()
	}
	return ""
}

// interactionUserID returns the invoking user in guilds and DMs
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
