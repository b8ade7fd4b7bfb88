package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/renttogether/renttogether-backend/internal/auth"
	"github.com/renttogether/renttogether-backend/internal/booking"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
	"github.com/renttogether/renttogether-backend/internal/pkg/request"
	"github.com/renttogether/renttogether-backend/internal/pkg/response"
	"github.com/renttogether/renttogether-backend/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// checkIsAdmin helper checks if the current user is an administrator.
func (h *Handler) checkIsAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsAdmin
}

// CalendarFeed returns a car's bookings in calendar-blocking statuses,
// ordered by start date, for the date-picker.
func (h *Handler) CalendarFeed(c *gin.Context) {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	bookings, err := h.service.CalendarFeed(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newCalendarBookingResponses(bookings))
}

// Calendar returns the blocked days of one month for a car.
func (h *Handler) Calendar(c *gin.Context) {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	blocked, err := h.service.Calendar(c.Request.Context(), carID, year, time.Month(month))
	if err != nil {
		response.Error(c, err)
		return
	}

	if blocked == nil {
		blocked = []dateonly.Date{}
	}

	c.JSON(http.StatusOK, CalendarResponse{
		Year:         year,
		Month:        month,
		BlockedDates: blocked,
	})
}

// CheckAvailability re-validates a candidate range right before submission.
func (h *Handler) CheckAvailability(c *gin.Context) {
	carID := c.Param("id")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	start, err := dateonly.Parse(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := dateonly.Parse(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	avail, err := h.service.CheckAvailability(c.Request.Context(), carID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := avail.ConflictingIDs
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Available:             avail.Available,
		ConflictingBookingIDs: ids,
	})
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookings, total, err := h.service.ListMine(c.Request.Context(), userID, params.Page, params.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := newBookingResponses(bookings)
	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsAdmin(c, userID)

	b, err := h.service.GetByID(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	start, err := dateonly.Parse(body.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := dateonly.Parse(body.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		CarID:           body.CarID,
		RenterID:        userID,
		StartDate:       start,
		EndDate:         end,
		TotalDays:       body.TotalDays,
		TotalPrice:      body.TotalPrice,
		PaymentIntentID: body.PaymentIntentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Confirm(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Confirm(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation_reason is required"})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsAdmin(c, userID)

	b, err := h.service.Cancel(c.Request.Context(), id, userID, isAdmin, body.CancellationReason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsAdmin(c, userID)

	if err := h.service.Delete(c.Request.Context(), id, userID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListForCar is the owner's view of a car's bookings with renter contact.
func (h *Handler) ListForCar(c *gin.Context) {
	carID := c.Param("carId")
	if _, err := uuid.Parse(carID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsAdmin(c, userID)

	bookings, err := h.service.ListForOwner(c.Request.Context(), carID, userID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newBookingResponses(bookings))
}
