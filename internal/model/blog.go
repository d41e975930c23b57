package model

import "time"

// Blog mirrors the 'blogs' table. BlogID is the public identifier used in
// URLs; the numeric ID stays internal.
type Blog struct {
	ID            uint64    `json:"-"`
	BlogID        string    `json:"blog_id"`
	Title         string    `json:"title"`
	Banner        string    `json:"banner,omitempty"`
	Description   string    `json:"description,omitempty"`
	Content       string    `json:"content,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	AuthorID      uint64    `json:"author_id"`
	TotalLikes    uint64    `json:"total_likes"`
	TotalComments uint64    `json:"total_comments"`
	TotalReads    uint64    `json:"total_reads"`
	CreatedAt     time.Time `json:"published_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
