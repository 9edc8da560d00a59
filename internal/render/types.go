package render

import "image"

// Section is the block of the status board a player is drawn in
type Section int

const (
	SectionInGame Section = iota
	SectionOnline
	SectionOffline
)

// GroupView is the header of a status board
type GroupView struct {
	Name   string
	Avatar image.Image
}

// PlayerView is one row of a status board or a start card
type PlayerView struct {
	// Name is the Steam display name
	Name string

	// Nickname is shown next to Name when set
	Nickname string

	// Status is the game name, "Online", "Away" or a last-online line
	Status string

	Section Section

	// Away rows sort after other online rows
	Away bool

	Avatar image.Image
}

// DisplayName returns the name as it appears on a row
func (p *PlayerView) DisplayName() string {
	if p.Nickname == "" || p.Nickname == p.Name {
		return p.Name
	}
	return p.Name + " (" + p.Nickname + ")"
}
