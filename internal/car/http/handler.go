package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/car"
	"github.com/renttogether/renttogether-backend/internal/pkg/request"
	"github.com/renttogether/renttogether-backend/internal/pkg/response"
)

type Handler struct {
	service car.Service
}

func NewHandler(service car.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := car.Filter{
		Search:       c.Query("search"),
		Transmission: c.Query("transmission"),
		FuelType:     c.Query("fuel_type"),
		CarClass:     c.Query("car_class"),
		Page:         params.Page,
		PageSize:     params.PageSize,
	}

	cars, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CarResponse, len(cars))
	for i, v := range cars {
		items[i] = NewCarResponse(v)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCarResponse(v))
}

func (h *Handler) Create(c *gin.Context) {
	var body CarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	v, err := h.service.Create(c.Request.Context(), userID, body.toCreateRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCarResponse(v))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateCarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := car.UpdateRequest{
		CreateRequest: body.toCreateRequest(),
		IsAvailable:   *body.IsAvailable,
	}

	v, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCarResponse(v))
}
