package httpHandler

import (
	"errors"
	"net/http"
	"telemetry-server/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase *usecases.AuthUseCase
}

func NewAuthHandler(useCase *usecases.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// bindCredentials reads username/password from the JSON body, falling back
// to query parameters for clients that send them there.
func bindCredentials(c *gin.Context) credentialsRequest {
	var req credentialsRequest
	_ = c.ShouldBindJSON(&req)
	if req.Username == "" {
		req.Username = c.Query("username")
	}
	if req.Password == "" {
		req.Password = c.Query("password")
	}
	return req
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	req := bindCredentials(c)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.useCase.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecases.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Key})
}

// Login handles POST /api/auth/token
func (h *AuthHandler) Login(c *gin.Context) {
	req := bindCredentials(c)
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.useCase.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecases.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token.Key})
}
