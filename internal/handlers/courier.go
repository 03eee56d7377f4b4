package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// CourierHandler serves the courier log
type CourierHandler struct {
	courierService *services.CourierService
}

// NewCourierHandler creates a new CourierHandler
func NewCourierHandler(courierService *services.CourierService) *CourierHandler {
	return &CourierHandler{courierService: courierService}
}

// CreateCourier logs a courier. Without tracking_number one is generated.
func (h *CourierHandler) CreateCourier(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateCourierRequest struct {
		SenderName     string               `json:"sender_name"`
		ReceiverName   string               `json:"receiver_name"`
		CourierType    string               `json:"courier_type"`
		TrackingNumber string               `json:"tracking_number"`
		Status         models.CourierStatus `json:"status"`
		ReceivedDate   string               `json:"received_date"`
		DeliveredDate  string               `json:"delivered_date"`
		Remarks        string               `json:"remarks"`
	}

	var req CreateCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	received, receivedErr := parseDate(req.ReceivedDate)
	delivered, deliveredErr := parseDate(req.DeliveredDate)

	courier, err := h.courierService.CreateCourier(services.CreateCourierInput{
		SenderName:             req.SenderName,
		ReceiverName:           req.ReceiverName,
		CourierType:            req.CourierType,
		TrackingNumber:         req.TrackingNumber,
		Status:                 req.Status,
		ReceivedDate:           received,
		DeliveredDate:          delivered,
		Remarks:                req.Remarks,
		CreatorID:              userID,
		ReceivedDateMalformed:  receivedErr != nil,
		DeliveredDateMalformed: deliveredErr != nil,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CourierResponse{
		Message: "Courier created successfully",
		Courier: dto.ToCourierDTO(*courier),
	})
}

// ListCouriers searches the log by sender, receiver or tracking number
func (h *CourierHandler) ListCouriers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.CourierStatus
	if v := c.Query("status"); v != "" {
		s := models.CourierStatus(v)
		status = &s
	}

	couriers, total, err := h.courierService.ListCouriers(services.ListCouriersInput{
		Search:     c.Query("search"),
		Status:     status,
		Pagination: params,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCourierListResponse(couriers, params, total))
}

// GetCourier returns one entry
func (h *CourierHandler) GetCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	courier, err := h.courierService.GetCourier(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCourierDTO(*courier))
}

// UpdateCourier applies the supplied fields
func (h *CourierHandler) UpdateCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateCourierRequest struct {
		SenderName    *string               `json:"sender_name"`
		ReceiverName  *string               `json:"receiver_name"`
		CourierType   *string               `json:"courier_type"`
		Status        *models.CourierStatus `json:"status"`
		DeliveredDate *string               `json:"delivered_date"`
		Remarks       *string               `json:"remarks"`
	}

	var req UpdateCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var (
		deliveredDate          *time.Time
		deliveredDateMalformed bool
	)
	if req.DeliveredDate != nil {
		parsed, err := parseDate(*req.DeliveredDate)
		deliveredDateMalformed = err != nil
		deliveredDate = parsed
	}

	courier, err := h.courierService.UpdateCourier(id, services.UpdateCourierInput{
		SenderName:             req.SenderName,
		ReceiverName:           req.ReceiverName,
		CourierType:            req.CourierType,
		Status:                 req.Status,
		DeliveredDate:          deliveredDate,
		Remarks:                req.Remarks,
		DeliveredDateMalformed: deliveredDateMalformed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CourierResponse{
		Message: "Courier updated successfully",
		Courier: dto.ToCourierDTO(*courier),
	})
}

// DeleteCourier removes an entry
func (h *CourierHandler) DeleteCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courierService.DeleteCourier(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Courier deleted successfully"})
}
