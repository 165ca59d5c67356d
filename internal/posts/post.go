package posts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the persistent model for a password-protected post. Posts are
// immutable once created: there is no update path, only expiry-driven
// deletion.
type Post struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Slug         string             `json:"slug" bson:"slug"`
	Title        string             `json:"title" bson:"title"`
	Content      string             `json:"content" bson:"content"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	// ExpiresAt nil means the post never expires.
	ExpiresAt *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the post's expiry has passed at the given time.
// Posts with no expiry never report true.
func (p *Post) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}
