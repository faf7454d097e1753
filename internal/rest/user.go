package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/rest/request"
	"github.com/threadboard/comments/internal/rest/response"
)

type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// Register creates a new account in PENDING status
func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Service.Register(ctx, req.FullName, req.Email, req.Password)
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusCreated, response.NewRegisteredUserFromDomain(&u))
}

// Login verifies credentials and returns a JWT
func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	token, err := h.Service.Login(ctx, req.Email, req.Password)
	if err != nil {
		c.JSON(errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
