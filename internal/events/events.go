package events

const NotificationMintedTopic = "notification:minted"

// NotificationMinted is published after a match notification has been
// persisted for a saved search.
type NotificationMinted struct {
	NotificationID string
	SearchID       string
	UserID         string
}
