package broadcast

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/models"
	"github.com/KirkDiggler/steamwatch/internal/render"
	groupRepo "github.com/KirkDiggler/steamwatch/internal/repositories/group"
	"github.com/KirkDiggler/steamwatch/internal/services/messaging"
)

// RenderRoster draws the full status board for a group as PNG bytes.
// Missing avatars and group profiles are drawn as placeholders.
func (p *Policy) RenderRoster(ctx context.Context, input *RenderRosterInput) ([]byte, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	nicknames := p.nicknames(input.GroupID)
	now := p.clock.Now()

	avatars := p.resolveAvatars(ctx, input.Players)

	views := make([]*render.PlayerView, 0, len(input.Players))
	for i, player := range input.Players {
		view, err := p.playerView(ctx, player, now)
		if err != nil {
			return nil, err
		}
		view.Nickname = nicknames[player.SteamID]
		view.Avatar = avatars[i]
		views = append(views, view)
	}

	img := p.renderer.FriendsStatus(p.groupView(ctx, input.GroupID), views)
	return render.EncodePNG(img)
}

func (p *Policy) playerView(ctx context.Context, player *models.PlayerState, now time.Time) (*render.PlayerView, error) {
	shown := player
	if player.InGame() && p.isBlocked(player.Game) {
		shown = player.Clone()
		shown.Game = nil
	}

	status, err := p.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{
		Player: shown,
		Now:    now,
	})
	if err != nil {
		return nil, err
	}

	view := &render.PlayerView{
		Name:   nameOf(shown),
		Status: status.Status,
	}
	switch {
	case status.InGame:
		view.Section = render.SectionInGame
	case shown.PersonaState.IsOnline():
		view.Section = render.SectionOnline
		view.Away = shown.PersonaState == models.PersonaStateAway
	default:
		view.Section = render.SectionOffline
	}
	return view, nil
}

func (p *Policy) groupView(ctx context.Context, groupID string) *render.GroupView {
	view := &render.GroupView{}

	profile, err := p.groups.GetProfile(ctx, &groupRepo.GetProfileInput{GroupID: groupID})
	if err != nil {
		if !isNotFound(err) {
			p.logger.Warn("failed to load group profile", "group_id", groupID, "err", err)
		}
		return view
	}

	view.Name = profile.Name
	if len(profile.Avatar) > 0 {
		img, _, err := image.Decode(bytes.NewReader(profile.Avatar))
		if err != nil {
			p.logger.Warn("group avatar is not a readable image", "group_id", groupID, "err", err)
		} else {
			view.Avatar = img
		}
	}
	return view
}
