package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/pkg/response"
	"github.com/renttogether/renttogether-backend/internal/user"
)

type Handler struct {
	service user.Service
	tokens  *auth.JWTManager
}

func NewHandler(service user.Service, tokens *auth.JWTManager) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		User:        NewUserResponse(u),
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, user.UpdateProfileRequest{
		FirstName:              body.FirstName,
		LastName:               body.LastName,
		Phone:                  body.Phone,
		DateOfBirth:            body.DateOfBirth,
		DriverLicenseNumber:    body.DriverLicenseNumber,
		DriverLicenseIssueDate: body.DriverLicenseIssueDate,
		DriverLicenseExpiry:    body.DriverLicenseExpiry,
		Address:                body.Address,
		PassportNumber:         body.PassportNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(u))
}
