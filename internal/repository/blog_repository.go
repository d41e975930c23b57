package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/gurusys/blog-api/internal/model"
)

const blogColumns = `id,blog_id,title,banner,description,content,tags,author_id,
total_likes,total_comments,total_reads,created_at,updated_at`

// BlogRepo persists blog posts. Tags are stored comma-joined in a single
// column; the public blog_id is a UUID so internal row ids never leak into
// URLs.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// Create inserts a blog post for the author and returns its public id.
func (r *BlogRepo) Create(ctx context.Context, b model.Blog) (string, error) {
	blogID := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO blogs (blog_id, title, banner, description, content, tags, author_id) VALUES (?,?,?,?,?,?,?)",
		blogID, b.Title, b.Banner, b.Description, b.Content, strings.Join(b.Tags, ","), b.AuthorID)
	if err != nil {
		return "", err
	}
	return blogID, nil
}

// GetByBlogID fetches a post by its public id.
func (r *BlogRepo) GetByBlogID(ctx context.Context, blogID string) (model.Blog, error) {
	var (
		b    model.Blog
		tags string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+blogColumns+" FROM blogs WHERE blog_id=? LIMIT 1", blogID).
		Scan(&b.ID, &b.BlogID, &b.Title, &b.Banner, &b.Description, &b.Content, &tags,
			&b.AuthorID, &b.TotalLikes, &b.TotalComments, &b.TotalReads,
			&b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Blog{}, ErrNotFound
	}
	if err != nil {
		return model.Blog{}, err
	}
	if tags != "" {
		b.Tags = strings.Split(tags, ",")
	}
	return b, nil
}

// List returns the latest posts, newest first.
func (r *BlogRepo) List(ctx context.Context, limit, offset int) ([]model.Blog, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+blogColumns+" FROM blogs ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Blog
	for rows.Next() {
		var (
			b    model.Blog
			tags string
		)
		if err := rows.Scan(&b.ID, &b.BlogID, &b.Title, &b.Banner, &b.Description, &b.Content, &tags,
			&b.AuthorID, &b.TotalLikes, &b.TotalComments, &b.TotalReads,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if tags != "" {
			b.Tags = strings.Split(tags, ",")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes a post when the caller is its author; ErrForbidden
// otherwise.
func (r *BlogRepo) Delete(ctx context.Context, blogID string, authorID uint64) error {
	b, err := r.GetByBlogID(ctx, blogID)
	if err != nil {
		return err
	}
	if b.AuthorID != authorID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM blogs WHERE id=?", b.ID)
	return err
}

// DeleteByAuthor removes all posts authored by the user and returns the
// number of rows deleted. Used by the account-deletion cascade.
func (r *BlogRepo) DeleteByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM blogs WHERE author_id=?", authorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
