package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/rest/middleware"
)

type mockCommentUsecase struct {
	fetchTopLevelFn func(ctx context.Context, cursor string, num int64) ([]*domain.Comment, string, error)
	fetchRepliesFn  func(ctx context.Context, parentID string) ([]*domain.Comment, error)
	createFn        func(ctx context.Context, comment *domain.Comment) error
	editFn          func(ctx context.Context, id, authorID, content string) (*domain.Comment, error)
	deleteFn        func(ctx context.Context, id, authorID string) error
	restoreFn       func(ctx context.Context, id, authorID string) (*domain.Comment, error)
}

func (m *mockCommentUsecase) FetchTopLevel(ctx context.Context, cursor string, num int64) ([]*domain.Comment, string, error) {
	return m.fetchTopLevelFn(ctx, cursor, num)
}

func (m *mockCommentUsecase) FetchReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	return m.fetchRepliesFn(ctx, parentID)
}

func (m *mockCommentUsecase) Create(ctx context.Context, comment *domain.Comment) error {
	return m.createFn(ctx, comment)
}

func (m *mockCommentUsecase) Edit(ctx context.Context, id, authorID, content string) (*domain.Comment, error) {
	return m.editFn(ctx, id, authorID, content)
}

func (m *mockCommentUsecase) Delete(ctx context.Context, id, authorID string) error {
	return m.deleteFn(ctx, id, authorID)
}

func (m *mockCommentUsecase) Restore(ctx context.Context, id, authorID string) (*domain.Comment, error) {
	return m.restoreFn(ctx, id, authorID)
}

var _ domain.CommentUsecase = (*mockCommentUsecase)(nil)

// newRouter wires the handler behind a stub identity so each test
// controls the authenticated user without minting real tokens.
func newRouter(svc domain.CommentUsecase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}
	h := NewCommentHandler(svc)
	r.GET("/comments", h.FetchTopLevel)
	r.GET("/comments/:id/replies", h.FetchReplies)
	r.POST("/comments", h.Create)
	r.PUT("/comments/:id", h.Edit)
	r.DELETE("/comments/:id", h.Delete)
	r.POST("/comments/:id/restore", h.Restore)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFetchTopLevelHandler(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockCommentUsecase{
		fetchTopLevelFn: func(ctx context.Context, cursor string, num int64) ([]*domain.Comment, string, error) {
			assert.Equal(t, "", cursor)
			assert.Equal(t, int64(10), num)
			return []*domain.Comment{
				{ID: "c-1", Content: "hello", AuthorID: "u-1", CreatedAt: now, UpdatedAt: now},
			}, "next-cursor", nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodGet, "/comments", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "next-cursor", w.Header().Get("X-cursor"))

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "c-1", body[0]["id"])
}

func TestFetchTopLevelHandler_NumClampedToDefault(t *testing.T) {
	svc := &mockCommentUsecase{
		fetchTopLevelFn: func(ctx context.Context, cursor string, num int64) ([]*domain.Comment, string, error) {
			assert.Equal(t, int64(DefaultPageNum), num)
			return []*domain.Comment{}, "", nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodGet, "/comments?num=9999", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFetchTopLevelHandler_Unauthenticated(t *testing.T) {
	svc := &mockCommentUsecase{}
	r := newRouter(svc, "")

	w := doJSON(t, r, http.MethodGet, "/comments", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFetchRepliesHandler(t *testing.T) {
	svc := &mockCommentUsecase{
		fetchRepliesFn: func(ctx context.Context, parentID string) ([]*domain.Comment, error) {
			assert.Equal(t, "c-1", parentID)
			return []*domain.Comment{
				{ID: "c-2", Content: "re: hello", AuthorID: "u-2", ParentID: "c-1"},
			}, nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodGet, "/comments/c-1/replies", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "c-1", body[0]["parent_id"])
}

func TestFetchRepliesHandler_UnknownParentIsEmptyList(t *testing.T) {
	svc := &mockCommentUsecase{
		fetchRepliesFn: func(ctx context.Context, parentID string) ([]*domain.Comment, error) {
			return []*domain.Comment{}, nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodGet, "/comments/ghost/replies", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateHandler(t *testing.T) {
	svc := &mockCommentUsecase{
		createFn: func(ctx context.Context, comment *domain.Comment) error {
			assert.Equal(t, "hello", comment.Content)
			assert.Equal(t, "u-1", comment.AuthorID)
			comment.ID = "c-new"
			return nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPost, "/comments", `{"content": "hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "c-new", body["id"])
}

func TestCreateHandler_MissingContent(t *testing.T) {
	svc := &mockCommentUsecase{}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPost, "/comments", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateHandler_ReplyToGhostParent(t *testing.T) {
	svc := &mockCommentUsecase{
		createFn: func(ctx context.Context, comment *domain.Comment) error {
			return domain.ErrNotFound
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPost, "/comments", `{"content": "hi", "parent_id": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditHandler(t *testing.T) {
	svc := &mockCommentUsecase{
		editFn: func(ctx context.Context, id, authorID, content string) (*domain.Comment, error) {
			assert.Equal(t, "c-1", id)
			assert.Equal(t, "u-1", authorID)
			return &domain.Comment{ID: id, Content: content, AuthorID: authorID}, nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPut, "/comments/c-1", `{"content": "edited"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "edited", body["content"])
}

func TestEditHandler_WindowExpired(t *testing.T) {
	svc := &mockCommentUsecase{
		editFn: func(ctx context.Context, id, authorID, content string) (*domain.Comment, error) {
			return nil, domain.ErrWindowExpired
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPut, "/comments/c-1", `{"content": "too late"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEditHandler_NotOwned(t *testing.T) {
	svc := &mockCommentUsecase{
		editFn: func(ctx context.Context, id, authorID, content string) (*domain.Comment, error) {
			return nil, domain.ErrNotFound
		},
	}
	r := newRouter(svc, "u-2")

	w := doJSON(t, r, http.MethodPut, "/comments/c-1", `{"content": "mine now"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteHandler(t *testing.T) {
	svc := &mockCommentUsecase{
		deleteFn: func(ctx context.Context, id, authorID string) error {
			assert.Equal(t, "c-1", id)
			assert.Equal(t, "u-1", authorID)
			return nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodDelete, "/comments/c-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestoreHandler(t *testing.T) {
	svc := &mockCommentUsecase{
		restoreFn: func(ctx context.Context, id, authorID string) (*domain.Comment, error) {
			return &domain.Comment{ID: id, Content: "back", AuthorID: authorID}, nil
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPost, "/comments/c-1/restore", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestoreHandler_WindowExpired(t *testing.T) {
	svc := &mockCommentUsecase{
		restoreFn: func(ctx context.Context, id, authorID string) (*domain.Comment, error) {
			return nil, domain.ErrWindowExpired
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodPost, "/comments/c-1/restore", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInternalErrorIsGeneric(t *testing.T) {
	svc := &mockCommentUsecase{
		deleteFn: func(ctx context.Context, id, authorID string) error {
			return assert.AnError
		},
	}
	r := newRouter(svc, "u-1")

	w := doJSON(t, r, http.MethodDelete, "/comments/c-1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ResponseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// raw error detail stays in the logs
	assert.Equal(t, domain.ErrInternalServerError.Error(), body.Message)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}
