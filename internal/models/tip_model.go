package models

import (
	"slices"
	"time"
)

// Tip is a short piece of sustainability advice shared by a user.
type Tip struct {
	ID         string    `json:"id" firestore:"-"`
	Title      string    `json:"title" firestore:"title"`
	Content    string    `json:"content" firestore:"content"`
	Category   string    `json:"category,omitempty" firestore:"category,omitempty"`
	Author     string    `json:"author" firestore:"author"` // author email
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Likes      []string  `json:"likes" firestore:"likes"`
	LikeCount  int       `json:"likeCount" firestore:"-"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Normalize fills the derived fields after a read.
func (t *Tip) Normalize() {
	if t.Likes == nil {
		t.Likes = []string{}
	}
	t.LikeCount = len(t.Likes)
}

// LikedBy reports whether email has liked the tip.
func (t *Tip) LikedBy(email string) bool {
	return slices.Contains(t.Likes, email)
}

// TipQuery selects tips. Results are ordered by CreatedAt, newest first.
type TipQuery struct {
	LikedBy string
	Limit   int
}
