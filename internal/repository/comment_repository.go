package repository

import (
	"context"
	"database/sql"

	"github.com/gurusys/blog-api/internal/model"
)

// CommentRepo persists comments and replies on blog posts.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and bumps the blog's comment counter.
func (r *CommentRepo) Create(ctx context.Context, c model.Comment) (uint64, error) {
	var parent any
	if c.ParentID != 0 {
		parent = c.ParentID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (blog_id, commented_by, comment, parent_id, is_reply) VALUES (?,?,?,?,?)",
		c.BlogID, c.CommentedBy, c.Comment, parent, c.ParentID != 0)
	if err != nil {
		return 0, err
	}
	// Counter drift on a failed bump is tolerated; the comment itself is
	// already committed.
	_, _ = r.DB.ExecContext(ctx,
		"UPDATE blogs SET total_comments=total_comments+1 WHERE id=?", c.BlogID)
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByBlog returns all comments of a post, oldest first.
func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, blog_id, commented_by, comment, COALESCE(parent_id,0), is_reply, created_at FROM comments WHERE blog_id=? ORDER BY created_at ASC",
		blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.CommentedBy, &c.Comment, &c.ParentID, &c.IsReply, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a comment when the caller authored it; ErrForbidden
// otherwise.
func (r *CommentRepo) Delete(ctx context.Context, id, userID uint64) error {
	var (
		by     uint64
		blogID uint64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT commented_by, blog_id FROM comments WHERE id=? LIMIT 1", id).Scan(&by, &blogID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if by != userID {
		return ErrForbidden
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=? OR parent_id=?", id, id); err != nil {
		return err
	}
	_, _ = r.DB.ExecContext(ctx,
		"UPDATE blogs SET total_comments=GREATEST(total_comments,1)-1 WHERE id=?", blogID)
	return nil
}

// DeleteByAuthor removes all comments authored by the user and returns the
// number of rows deleted. Used by the account-deletion cascade.
func (r *CommentRepo) DeleteByAuthor(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE commented_by=?", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
