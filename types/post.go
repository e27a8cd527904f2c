package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a published article. Speaker holds the Polly voice
// selected from the detected content language and may be empty when the
// language has no mapped voice.
type Post struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Summary   string             `json:"summary" bson:"summary"`
	Content   string             `json:"content" bson:"content"`
	Cover     string             `json:"cover" bson:"cover"`
	Speaker   string             `json:"speaker,omitempty" bson:"speaker,omitempty"`
	LikeCount int                `json:"likeCount" bson:"likeCount"`
	AuthorID  primitive.ObjectID `json:"-" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Author is the expanded author reference, populated by the service
	// for read endpoints. Never persisted.
	Author *AuthorRef `json:"author,omitempty" bson:"-"`
}

// AuthorRef is the subset of the author exposed alongside a post.
type AuthorRef struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}
