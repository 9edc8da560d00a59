package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width = 400

	groupAvatarSize  = 72
	memberAvatarSize = 50
	cardAvatarSize   = 66

	headerHeight  = 100
	sectionHeight = 30
	rowHeight     = 64
	cardHeight    = 106
	padding       = 14
)

var (
	background  = color.RGBA{R: 0x1e, G: 0x20, B: 0x24, A: 0xff}
	headerBg    = color.RGBA{R: 0x23, G: 0x26, B: 0x2e, A: 0xff}
	sectionText = color.RGBA{R: 0xc5, G: 0xd6, B: 0xd4, A: 0xff}
	cardBg      = color.RGBA{R: 0x28, G: 0x33, B: 0x20, A: 0xff}
	placeholder = color.RGBA{R: 0x4a, G: 0x4f, B: 0x57, A: 0xff}

	inGameName   = color.RGBA{R: 0xe3, G: 0xff, B: 0xc2, A: 0xff}
	inGameStatus = color.RGBA{R: 0x91, G: 0xc2, B: 0x57, A: 0xff}
	onlineName   = color.RGBA{R: 0x6d, G: 0xce, B: 0xf5, A: 0xff}
	onlineStatus = color.RGBA{R: 0x4c, G: 0x91, B: 0xac, A: 0xff}
	awayName     = color.RGBA{R: 0x45, G: 0x77, B: 0x8e, A: 0xff}
	awayStatus   = color.RGBA{R: 0x36, G: 0x59, B: 0x69, A: 0xff}
	offlineName  = color.RGBA{R: 0x96, G: 0x96, B: 0x97, A: 0xff}
	offlineStat  = color.RGBA{R: 0x65, G: 0x65, B: 0x65, A: 0xff}
)

var sectionTitles = map[Section]string{
	SectionInGame:  "Playing",
	SectionOnline:  "Online",
	SectionOffline: "Offline",
}

// Renderer draws status boards and start cards
type Renderer struct {
	face font.Face
}

// New creates a renderer using the built-in bitmap face
func New() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

// FriendsStatus draws the group header followed by in-game, online and offline sections.
// Empty sections are omitted. Away players are listed after the rest of the online section.
func (r *Renderer) FriendsStatus(group *GroupView, players []*PlayerView) image.Image {
	sections := make(map[Section][]*PlayerView)
	for _, p := range players {
		if p == nil {
			continue
		}
		sections[p.Section] = append(sections[p.Section], p)
	}
	online := sections[SectionOnline]
	sort.SliceStable(online, func(i, j int) bool {
		return !online[i].Away && online[j].Away
	})

	order := []Section{SectionInGame, SectionOnline, SectionOffline}
	height := headerHeight
	for _, sec := range order {
		if n := len(sections[sec]); n > 0 {
			height += sectionHeight + n*rowHeight
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, Width, height))
	fill(canvas, canvas.Bounds(), background)

	r.drawHeader(canvas, group)

	y := headerHeight
	for _, sec := range order {
		rows := sections[sec]
		if len(rows) == 0 {
			continue
		}
		r.text(canvas, padding, y+20, fmt.Sprintf("%s (%d)", sectionTitles[sec], len(rows)), sectionText)
		y += sectionHeight
		for _, p := range rows {
			r.drawRow(canvas, y, p)
			y += rowHeight
		}
	}

	return canvas
}

// StartGaming draws the small "now playing" card for a single player
func (r *Renderer) StartGaming(player *PlayerView, game string) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, cardHeight))
	fill(canvas, canvas.Bounds(), cardBg)

	avatar := player.Avatar
	if avatar == nil {
		avatar = Placeholder(cardAvatarSize)
	}
	paste(canvas, avatar, image.Rect(15, 20, 15+cardAvatarSize, 20+cardAvatarSize))

	x := 15 + cardAvatarSize + 23
	maxWidth := Width - x - padding
	r.text(canvas, x, 34, r.truncate(player.DisplayName(), maxWidth), inGameName)
	r.text(canvas, x, 56, "is now playing", sectionText)
	r.text(canvas, x, 78, r.truncate(game, maxWidth), inGameStatus)

	return canvas
}

// VConcat stacks images top to bottom, left aligned, on a canvas as wide as the widest image
func VConcat(images []image.Image) image.Image {
	width, height := 0, 0
	for _, img := range images {
		if img == nil {
			continue
		}
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, img := range images {
		if img == nil {
			continue
		}
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}
	return canvas
}

// EncodePNG encodes an image for sending as an attachment
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder is the avatar drawn when none could be loaded
func Placeholder(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, img.Bounds(), placeholder)
	return img
}

func (r *Renderer) drawHeader(canvas *image.RGBA, group *GroupView) {
	fill(canvas, image.Rect(0, 0, Width, headerHeight), headerBg)

	name := "Steam"
	var avatar image.Image
	if group != nil {
		if group.Name != "" {
			name = group.Name
		}
		avatar = group.Avatar
	}
	if avatar == nil {
		avatar = Placeholder(groupAvatarSize)
	}

	top := (headerHeight - groupAvatarSize) / 2
	paste(canvas, avatar, image.Rect(padding, top, padding+groupAvatarSize, top+groupAvatarSize))

	x := padding + groupAvatarSize + padding
	r.text(canvas, x, headerHeight/2+4, r.truncate(name, Width-x-padding), color.White)
}

func (r *Renderer) drawRow(canvas *image.RGBA, y int, p *PlayerView) {
	nameColor, statusColor := rowColors(p)

	avatar := p.Avatar
	if avatar == nil {
		avatar = Placeholder(memberAvatarSize)
	}
	top := y + (rowHeight-memberAvatarSize)/2
	paste(canvas, avatar, image.Rect(padding, top, padding+memberAvatarSize, top+memberAvatarSize))

	x := padding + memberAvatarSize + padding
	maxWidth := Width - x - padding
	r.text(canvas, x, y+26, r.truncate(p.DisplayName(), maxWidth), nameColor)
	r.text(canvas, x, y+46, r.truncate(p.Status, maxWidth), statusColor)
}

func rowColors(p *PlayerView) (color.Color, color.Color) {
	switch {
	case p.Section == SectionInGame:
		return inGameName, inGameStatus
	case p.Section == SectionOnline && p.Away:
		return awayName, awayStatus
	case p.Section == SectionOnline:
		return onlineName, onlineStatus
	default:
		return offlineName, offlineStat
	}
}

func (r *Renderer) text(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// truncate shortens s with an ellipsis so it fits in width pixels
func (r *Renderer) truncate(s string, width int) string {
	if font.MeasureString(r.face, s).Ceil() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if font.MeasureString(r.face, candidate).Ceil() <= width {
			return candidate
		}
	}
	return ""
}

func fill(dst draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// paste scales src into rect
func paste(dst draw.Image, src image.Image, rect image.Rectangle) {
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Over, nil)
}
