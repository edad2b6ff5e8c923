package core

import "context"

// Notification kinds
const (
	NotifyLike        = "like"
	NotifyComment     = "comment"
	NotifyIncorporate = "incorporate"
)

type (
	Notification struct {
		Kind      string `json:"kind"`
		Message   string `json:"message"`
		PostID    string `json:"post_id"`
		ActorID   string `json:"actor_id"`
		ActorName string `json:"actor_name"`
	}

	// Notifier receives an event whenever a community interaction succeeds
	// and the acting user is not the post's author.
	Notifier interface {
		Notify(ctx context.Context, n Notification)
	}
)
