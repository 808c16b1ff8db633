package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillpad/blog-api/internal/api/metrics"
	"github.com/quillpad/blog-api/internal/core/domain"
	"github.com/quillpad/blog-api/internal/core/ports"
)

const (
	msgPostFields    = "Title and content are required"
	msgInvalidPostID = "Invalid post ID"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
	metrics *metrics.Metrics
}

func NewPostHandler(service ports.PostService, m *metrics.Metrics) *PostHandler {
	return &PostHandler{service: service, metrics: m}
}

// List returns every post, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Post
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns a single post. Any authenticated user may read any post.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}

	post, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create stores a post owned by the caller.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post title and content"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	in, err := bindPost(c)
	if err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), caller.UserID, in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return badRequest(msgPostFields, err)
		}
		return err
	}

	h.metrics.PostMutated("create")
	return c.JSON(http.StatusCreated, post)
}

// Update replaces title and content. Only the owner may update.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post ID"
// @Param        body  body      postRequest  true  "New title and content"
// @Success      200   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := postID(c)
	if err != nil {
		return err
	}

	in, err := bindPost(c)
	if err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), id, caller.UserID, in)
	if err != nil {
		return h.mutationError(err, "update")
	}

	h.metrics.PostMutated("update")
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post. Only the owner may delete.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := postID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, caller.UserID); err != nil {
		return h.mutationError(err, "delete")
	}

	h.metrics.PostMutated("delete")
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

func (h *PostHandler) mutationError(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		h.metrics.OwnershipDenied(op)
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to "+op+" this post").SetInternal(err)
	case errors.Is(err, domain.ErrValidation):
		return badRequest(msgPostFields, err)
	}
	return err
}

func postID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, badRequest(msgInvalidPostID, err)
	}
	return id, nil
}

func bindPost(c echo.Context) (ports.PostInput, error) {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return ports.PostInput{}, badRequest(msgInvalidBody, err)
	}
	if err := c.Validate(&req); err != nil {
		return ports.PostInput{}, badRequest(msgPostFields, err)
	}
	return ports.PostInput{Title: req.Title, Content: req.Content}, nil
}
