package models

// GroupProfile is the display identity rendered at the top of a status board
type GroupProfile struct {
	// GroupID is the chat channel the profile belongs to
	GroupID string

	// Name is the display name of the group
	Name string

	// Avatar holds the encoded avatar image
	Avatar []byte
}
