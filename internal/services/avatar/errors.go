package avatar

// AvatarError is a custom error type for avatar resolution errors
type AvatarError string

// Error implements the error interface
func (e AvatarError) Error() string {
	return string(e)
}

const (
	ErrNilConfig     AvatarError = "config cannot be nil"
	ErrNilRepository AvatarError = "repository cannot be nil"
	ErrNilFetcher    AvatarError = "fetcher cannot be nil"
	ErrNilPlayer     AvatarError = "player cannot be nil"
	ErrNoAvatarURL   AvatarError = "player has no avatar url"
)
