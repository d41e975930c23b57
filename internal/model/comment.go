package model

import "time"

// Comment mirrors the 'comments' table. ParentID is non-zero for replies.
type Comment struct {
	ID          uint64    `json:"id"`
	BlogID      uint64    `json:"-"`
	CommentedBy uint64    `json:"commented_by"`
	Comment     string    `json:"comment"`
	ParentID    uint64    `json:"parent_id,omitempty"`
	IsReply     bool      `json:"is_reply"`
	CreatedAt   time.Time `json:"commented_at"`
}
