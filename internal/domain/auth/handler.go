package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtracker/internal/middleware"
	"jobtracker/internal/pkg/request"
	"jobtracker/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Signup godoc
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Email and password (min 8 characters)"
// @Success 201 {object} response.Response{data=User}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response "email already registered"
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if !request.JSON(c, &req) {
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// Signin godoc
// @Summary Sign in
// @Description Returns a bearer token for the protected endpoints.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Credentials"
// @Success 200 {object} response.Response{data=TokenResponse}
// @Failure 401 {object} response.Response
// @Router /auth/signin [post]
func (h *Handler) Signin(c *gin.Context) {
	var req CredentialsRequest
	if !request.JSON(c, &req) {
		return
	}

	tokens, err := h.service.Signin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

// Signout revokes the presented token.
func (h *Handler) Signout(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Signout(c.Request.Context(), p); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.Me(c.Request.Context(), p.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
