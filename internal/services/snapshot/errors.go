package snapshot

// SnapshotError is a custom error type for snapshot store errors
type SnapshotError string

// Error implements the error interface
func (e SnapshotError) Error() string {
	return string(e)
}

const (
	ErrNilConfig     SnapshotError = "config cannot be nil"
	ErrNilRepository SnapshotError = "snapshot repository cannot be nil"
)
