package models

// Binding associates a chat member with a Steam account inside one group
type Binding struct {
	// GroupID is the chat channel that owns the binding
	GroupID string `json:"group_id"`

	// MemberID is the chat user ID
	MemberID string `json:"member_id"`

	// SteamID is the 64-bit Steam ID the member tracks
	SteamID string `json:"steam_id"`

	// Nickname overrides the Steam persona name in notices, nil when unset
	Nickname *string `json:"nickname"`
}

// Clone returns a copy of the binding that shares no pointers
func (b *Binding) Clone() *Binding {
	if b == nil {
		return nil
	}

	clone := *b
	if b.Nickname != nil {
		nickname := *b.Nickname
		clone.Nickname = &nickname
	}

	return &clone
}
