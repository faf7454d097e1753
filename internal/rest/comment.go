package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/rest/middleware"
	"github.com/threadboard/comments/internal/rest/request"
	"github.com/threadboard/comments/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const (
	DefaultPageNum = 10
	PageMinNum     = 5
	PageMaxNum     = 50
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// principal returns the authenticated user id set by the auth middleware.
func principal(c *gin.Context) (string, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}

// FetchTopLevel will fetch the top-level comments, newest first
func (h *CommentHandler) FetchTopLevel(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	numS := c.Query("num")
	num, err := strconv.Atoi(numS)
	if err != nil || num < PageMinNum || num > PageMaxNum {
		num = DefaultPageNum
	}
	cursor := c.Query("cursor")

	ctx := c.Request.Context()
	comments, nextCursor, err := h.Service.FetchTopLevel(ctx, cursor, int64(num))
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.Header(`X-cursor`, nextCursor)
	c.JSON(http.StatusOK, response.NewCommentListFromDomain(comments))
}

// FetchReplies will fetch the direct replies of the given comment
func (h *CommentHandler) FetchReplies(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	parentID := c.Param("id")

	ctx := c.Request.Context()
	replies, err := h.Service.FetchReplies(ctx, parentID)
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, response.NewCommentListFromDomain(replies))
}

// Create will store a new comment or reply by given request body
func (h *CommentHandler) Create(c *gin.Context) {
	uid, ok := principal(c)
	if !ok {
		return
	}

	var req request.CreateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := req.ToDomain()
	comment.AuthorID = uid

	ctx := c.Request.Context()
	if err := h.Service.Create(ctx, &comment); err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, response.NewCommentFromDomain(&comment))
}

// Edit will update the content of an owned comment
func (h *CommentHandler) Edit(c *gin.Context) {
	uid, ok := principal(c)
	if !ok {
		return
	}

	var req request.EditComment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	comment, err := h.Service.Edit(ctx, c.Param("id"), uid, req.Content)
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

// Delete will tombstone an owned comment
func (h *CommentHandler) Delete(c *gin.Context) {
	uid, ok := principal(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.Service.Delete(ctx, c.Param("id"), uid); err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Restore will reverse the tombstone of an owned comment
func (h *CommentHandler) Restore(c *gin.Context) {
	uid, ok := principal(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comment, err := h.Service.Restore(ctx, c.Param("id"), uid)
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, response.NewCommentFromDomain(comment))
}

// errorResponse maps a usecase failure to a status plus body. Internal
// failures are logged with detail above and surfaced generically here.
func errorResponse(err error) (int, ResponseError) {
	code := getStatusCode(err)
	if code == http.StatusInternalServerError {
		return code, ResponseError{Message: domain.ErrInternalServerError.Error()}
	}
	return code, ResponseError{Message: err.Error()}
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch err {
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrWindowExpired:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
