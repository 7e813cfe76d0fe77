package domain

// ChangeType classifies a change to a watched file.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// FileChange is one observed change to a watched file.
type FileChange struct {
	Type ChangeType
	Path string
}
