package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/apperr"
	"github.com/gurusys/blog-api/internal/middleware"
	"github.com/gurusys/blog-api/internal/model"
	"github.com/gurusys/blog-api/internal/repository"
)

// BlogHandler serves blog and comment CRUD. Reads are public; writes go
// through the auth gate and enforce authorship.
type BlogHandler struct {
	Blogs    *repository.BlogRepo
	Comments *repository.CommentRepo
}

func NewBlogHandler(blogs *repository.BlogRepo, comments *repository.CommentRepo) *BlogHandler {
	return &BlogHandler{Blogs: blogs, Comments: comments}
}

type createBlogReq struct {
	Title       string   `json:"title"`
	Banner      string   `json:"banner"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
}

type createCommentReq struct {
	Comment  string `json:"comment"`
	ParentID uint64 `json:"parent_id"`
}

// Create publishes a new post by the authenticated user.
func (h *BlogHandler) Create(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	var req createBlogReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return apperr.BadRequest("A title is required.")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	blogID, err := h.Blogs.Create(ctx, model.Blog{
		Title:       strings.TrimSpace(req.Title),
		Banner:      req.Banner,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		AuthorID:    sc.UserID,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusCreated, "Published🎉", map[string]string{"blog_id": blogID})
}

// List returns the latest posts.
func (h *BlogHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	blogs, err := h.Blogs.List(ctx, limit, offset)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusOK, "", map[string]any{"blogs": blogs})
}

// Get returns one post by public id.
func (h *BlogHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Blogs.GetByBlogID(ctx, c.Param("blog_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("")
		}
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusOK, "", map[string]any{"blog": b})
}

// Delete removes the caller's own post.
func (h *BlogHandler) Delete(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Blogs.Delete(ctx, c.Param("blog_id"), sc.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("")
	case errors.Is(err, repository.ErrForbidden):
		return apperr.Unauthorized("You can only delete your own posts.")
	case err != nil:
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusOK, "Deleted", nil)
}

// CreateComment adds a comment (or reply) to a post.
func (h *BlogHandler) CreateComment(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		return apperr.BadRequest("A comment is required.")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Blogs.GetByBlogID(ctx, c.Param("blog_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("")
		}
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	id, err := h.Comments.Create(ctx, model.Comment{
		BlogID:      b.ID,
		CommentedBy: sc.UserID,
		Comment:     strings.TrimSpace(req.Comment),
		ParentID:    req.ParentID,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusCreated, "", map[string]uint64{"id": id})
}

// ListComments returns all comments of a post.
func (h *BlogHandler) ListComments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Blogs.GetByBlogID(ctx, c.Param("blog_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("")
		}
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	comments, err := h.Comments.ListByBlog(ctx, b.ID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusOK, "", map[string]any{"comments": comments})
}

// DeleteComment removes the caller's own comment and its replies.
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		return apperr.Unauthenticated("")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return apperr.BadRequest("Invalid ID!")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Comments.Delete(ctx, id, sc.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("")
	case errors.Is(err, repository.ErrForbidden):
		return apperr.Unauthorized("You can only delete your own comments.")
	case err != nil:
		return apperr.Wrap(apperr.KindInternal, "", err)
	}
	return respond(c, http.StatusOK, "Deleted", nil)
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
