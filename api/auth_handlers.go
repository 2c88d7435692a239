package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func sessionResponse(message string, session model.Session) gin.H {
	return gin.H{
		"message":    message,
		"token":      session.Token,
		"username":   session.Username,
		"email":      session.Email,
		"expires_at": session.ExpiresAt,
	}
}

// RegisterHandler creates an admin account and returns a token for it
func (api *API) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	session, err := api.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		SendServiceError(c, "register admin", err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse("Admin registered successfully", session))
}

// LoginHandler exchanges credentials for a bearer token
func (api *API) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	session, err := api.auth.Login(req.Username, req.Password)
	if err != nil {
		SendServiceError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse("Login successful", session))
}

// ValidateTokenHandler reports whether the bearer token is still valid
func (api *API) ValidateTokenHandler(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		SendUnauthorizedError(c, "Invalid token format")
		return
	}

	session, err := api.auth.Validate(token)
	if err != nil {
		SendUnauthorizedError(c, "Invalid or expired token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"username":   session.Username,
		"email":      session.Email,
		"expires_at": session.ExpiresAt,
	})
}

// LogoutHandler revokes the caller's token
func (api *API) LogoutHandler(c *gin.Context) {
	if token, ok := bearerToken(c); ok {
		api.auth.Logout(token)
	}
	c.Status(http.StatusNoContent)
}
