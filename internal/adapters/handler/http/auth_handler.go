package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Gender   string `json:"gender" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Username                string `json:"username" binding:"required"`
	Gender                  string `json:"gender" binding:"required"`
	BirthDate               string `json:"birth_date" binding:"required"`
	CurrentPassword         string `json:"current_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Gender    string    `json:"gender"`
	BirthDate string    `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{ID: u.ID, Email: u.Email, Username: u.Username, Gender: u.Gender, CreatedAt: u.CreatedAt}
	if u.BirthDate != nil {
		resp.BirthDate = u.BirthDate.Format(domain.DateLayout)
	}
	return resp
}

// Register godoc
// @Summary  Create an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Success  201 {object} userResponse
// @Failure  400,409 {object} map[string]interface{}
// @Router   /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Gender:   req.Gender,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		case errors.Is(err, domain.ErrInvalidEmail),
			errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrInvalidUsername),
			errors.Is(err, domain.ErrInvalidGender):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			handleError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Failure  401 {object} map[string]interface{}
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// GetProfile godoc
// @Summary   Current user's profile
// @Tags      profile
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} userResponse
// @Failure   401,404 {object} map[string]interface{}
// @Router    /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile godoc
// @Summary   Update username, gender, birth date and optionally the password
// @Tags      profile
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body profileRequest true "Profile"
// @Success   200 {object} userResponse
// @Failure   400,401,404 {object} map[string]interface{}
// @Router    /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	birthDate, err := domain.ParseDateField("birth_date", req.BirthDate)
	if err != nil {
		handleError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, services.ProfileInput{
		Username:                req.Username,
		Gender:                  req.Gender,
		BirthDate:               &birthDate,
		CurrentPassword:         req.CurrentPassword,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
	})
	if err != nil {
		h.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) profileError(c *gin.Context, err error) {
	field := ""
	switch {
	case errors.Is(err, domain.ErrInvalidUsername):
		field = "username"
	case errors.Is(err, domain.ErrInvalidGender):
		field = "gender"
	case errors.Is(err, domain.ErrInvalidBirthDate):
		field = "birth_date"
	case errors.Is(err, domain.ErrWrongPassword):
		field = "current_password"
	case errors.Is(err, domain.ErrPasswordMismatch), errors.Is(err, domain.ErrPasswordTooShort):
		field = "new_password"
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	default:
		handleError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{field: err.Error()}})
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes expects the auth middleware on router.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.PUT("/profile", h.UpdateProfile)
}
