package broadcast

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/steamwatch/internal/common/clock"
	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/render"
	groupRepo "github.com/KirkDiggler/steamwatch/internal/repositories/group"
	"github.com/KirkDiggler/steamwatch/internal/services/messaging"
	"golang.org/x/sync/errgroup"
)

const defaultAvatarConcurrency = 8

// Policy decides what, if anything, a poll cycle sends into a group
type Policy struct {
	mute        MuteChecker
	bindings    BindingLookup
	avatars     AvatarResolver
	messaging   messaging.Service
	renderer    *render.Renderer
	groups      groupRepo.Repository
	clock       clock.Clock
	logger      *slog.Logger
	mode        models.BroadcastMode
	blocked     map[string]struct{}
	concurrency int
}

// New creates a new broadcast policy
func New(cfg *Config) (*Policy, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Mute == nil {
		return nil, ErrNilMute
	}
	if cfg.Bindings == nil {
		return nil, ErrNilBindings
	}
	if cfg.Avatars == nil {
		return nil, ErrNilAvatars
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if cfg.Groups == nil {
		return nil, ErrNilGroups
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	mode := cfg.Mode
	if mode == "" {
		mode = models.BroadcastModeAll
	}
	switch mode {
	case models.BroadcastModeAll, models.BroadcastModePart, models.BroadcastModeNone:
	default:
		return nil, ErrInvalidMode
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.AvatarConcurrency
	if concurrency <= 0 {
		concurrency = defaultAvatarConcurrency
	}

	blocked := make(map[string]struct{}, len(cfg.BlockedGameIDs))
	for _, id := range cfg.BlockedGameIDs {
		if id = strings.TrimSpace(id); id != "" {
			blocked[id] = struct{}{}
		}
	}

	return &Policy{
		mute:        cfg.Mute,
		bindings:    cfg.Bindings,
		avatars:     cfg.Avatars,
		messaging:   cfg.Messaging,
		renderer:    cfg.Renderer,
		groups:      cfg.Groups,
		clock:       cfg.Clock,
		logger:      logger,
		mode:        mode,
		blocked:     blocked,
		concurrency: concurrency,
	}, nil
}

// Decide returns the payload to send for a group's events, or nil when nothing should be sent.
// A muted group returns nil before any rendering happens.
func (p *Policy) Decide(ctx context.Context, input *DecideInput) (*models.OutboundPayload, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	logger := p.logger.With("group_id", input.GroupID)

	if p.mute.IsMuted(input.GroupID) {
		logger.Debug("group muted, skipping broadcast", "events", len(input.Events))
		return nil, nil
	}

	events := p.filterBlocked(input.Events)
	if len(events) == 0 {
		return nil, nil
	}

	nicknames := p.nicknames(input.GroupID)

	var lines []string
	var started []*models.TransitionEvent
	for _, event := range events {
		output, err := p.messaging.GetTransitionMessage(ctx, &messaging.GetTransitionMessageInput{
			Event:       event,
			DisplayName: displayName(event.SteamID, event.Name, nicknames),
		})
		if err != nil {
			logger.Warn("skipping unclassified transition",
				"steam_id", event.SteamID,
				"kind", event.Kind,
				"err", err)
			continue
		}
		lines = append(lines, output.Message)
		if event.Kind == models.EventKindStart {
			started = append(started, event)
		}
	}

	if len(lines) == 0 {
		return nil, nil
	}

	payload := &models.OutboundPayload{
		GroupID: input.GroupID,
		Text:    strings.Join(lines, "\n"),
	}

	img, err := p.image(ctx, input, started, nicknames)
	if err != nil {
		logger.Error("failed to render broadcast image, sending text only", "err", err)
	} else {
		payload.Image = img
	}

	return payload, nil
}

func (p *Policy) image(ctx context.Context, input *DecideInput, started []*models.TransitionEvent, nicknames map[string]string) ([]byte, error) {
	switch p.mode {
	case models.BroadcastModeAll:
		return p.RenderRoster(ctx, &RenderRosterInput{
			GroupID: input.GroupID,
			Players: input.Players,
		})
	case models.BroadcastModePart:
		if len(started) == 0 {
			return nil, nil
		}
		return p.renderStartCards(ctx, input.Players, started, nicknames)
	default:
		return nil, nil
	}
}

func (p *Policy) renderStartCards(ctx context.Context, players []*models.PlayerState, started []*models.TransitionEvent, nicknames map[string]string) ([]byte, error) {
	byID := make(map[string]*models.PlayerState, len(players))
	for _, player := range players {
		byID[player.SteamID] = player
	}

	subjects := make([]*models.PlayerState, len(started))
	for i, event := range started {
		player, ok := byID[event.SteamID]
		if !ok {
			player = &models.PlayerState{SteamID: event.SteamID, Name: event.Name}
		}
		subjects[i] = player
	}

	avatars := p.resolveAvatars(ctx, subjects)

	cards := make([]image.Image, len(started))
	for i, event := range started {
		view := &render.PlayerView{
			Name:     nameOf(subjects[i]),
			Nickname: nicknames[event.SteamID],
			Avatar:   avatars[i],
		}
		cards[i] = p.renderer.StartGaming(view, event.NewGame.Name)
	}

	if len(cards) == 1 {
		return render.EncodePNG(cards[0])
	}
	return render.EncodePNG(render.VConcat(cards))
}

// filterBlocked rewrites events so blocked games are never announced
func (p *Policy) filterBlocked(events []*models.TransitionEvent) []*models.TransitionEvent {
	filtered := make([]*models.TransitionEvent, 0, len(events))
	for _, event := range events {
		if event == nil {
			continue
		}
		oldBlocked := p.isBlocked(event.OldGame)
		newBlocked := p.isBlocked(event.NewGame)

		switch event.Kind {
		case models.EventKindStart:
			if newBlocked {
				continue
			}
		case models.EventKindStop:
			if oldBlocked {
				continue
			}
		case models.EventKindChange:
			switch {
			case oldBlocked && newBlocked:
				continue
			case oldBlocked:
				rewritten := *event
				rewritten.Kind = models.EventKindStart
				rewritten.OldGame = nil
				event = &rewritten
			case newBlocked:
				rewritten := *event
				rewritten.Kind = models.EventKindStop
				rewritten.NewGame = nil
				event = &rewritten
			}
		}
		filtered = append(filtered, event)
	}
	return filtered
}

func (p *Policy) isBlocked(game *models.Game) bool {
	if game == nil || game.ID == "" {
		return false
	}
	_, ok := p.blocked[game.ID]
	return ok
}

// nicknames maps Steam IDs to the nickname bound in the group
func (p *Policy) nicknames(groupID string) map[string]string {
	nicknames := make(map[string]string)
	for _, b := range p.bindings.Bindings(groupID) {
		if b.Nickname != nil && *b.Nickname != "" {
			nicknames[b.SteamID] = *b.Nickname
		}
	}
	return nicknames
}

// resolveAvatars loads avatars in parallel, leaving nil where loading failed
func (p *Policy) resolveAvatars(ctx context.Context, players []*models.PlayerState) []image.Image {
	avatars := make([]image.Image, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, player := range players {
		g.Go(func() error {
			img, err := p.avatars.Resolve(gctx, player)
			if err != nil {
				p.logger.Warn("using placeholder avatar", "steam_id", player.SteamID, "err", err)
				return nil
			}
			avatars[i] = img
			return nil
		})
	}
	_ = g.Wait()

	return avatars
}

func displayName(steamID, name string, nicknames map[string]string) string {
	if nick := nicknames[steamID]; nick != "" {
		return nick
	}
	if name != "" {
		return name
	}
	return steamID
}

func nameOf(player *models.PlayerState) string {
	if player.Name != "" {
		return player.Name
	}
	return player.SteamID
}

func isNotFound(err error) bool {
	return errors.Is(err, groupRepo.ErrGroupNotFound)
}
