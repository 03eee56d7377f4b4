package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// CourierDTO represents a courier log entry in API responses
type CourierDTO struct {
	ID             uint64               `json:"id"`
	SenderName     string               `json:"sender_name"`
	ReceiverName   string               `json:"receiver_name"`
	CourierType    string               `json:"courier_type"`
	TrackingNumber string               `json:"tracking_number"`
	Status         models.CourierStatus `json:"status"`
	ReceivedDate   time.Time            `json:"received_date"`
	DeliveredDate  *time.Time           `json:"delivered_date"`
	Remarks        string               `json:"remarks"`
	CreatedBy      uint64               `json:"created_by"`
	Creator        *UserSummaryDTO      `json:"creator,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// CourierResponse wraps a courier with a confirmation message
type CourierResponse struct {
	Message string     `json:"message"`
	Courier CourierDTO `json:"courier"`
}

// CourierListResponse represents a paginated list of couriers
type CourierListResponse struct {
	Couriers   []CourierDTO             `json:"couriers"`
	Pagination utils.PaginationResponse `json:"pagination"`
	TotalPages int                      `json:"total_pages"`
}

// ToCourierDTO converts a Courier model to CourierDTO
func ToCourierDTO(courier models.Courier) CourierDTO {
	return CourierDTO{
		ID:             courier.ID,
		SenderName:     courier.SenderName,
		ReceiverName:   courier.ReceiverName,
		CourierType:    courier.CourierType,
		TrackingNumber: courier.TrackingNumber,
		Status:         courier.Status,
		ReceivedDate:   courier.ReceivedDate,
		DeliveredDate:  courier.DeliveredDate,
		Remarks:        courier.Remarks,
		CreatedBy:      courier.CreatedBy,
		Creator:        ToUserSummaryDTO(courier.Creator),
		CreatedAt:      courier.CreatedAt,
		UpdatedAt:      courier.UpdatedAt,
	}
}

// ToCourierListResponse converts a page of couriers to CourierListResponse
func ToCourierListResponse(couriers []models.Courier, params utils.PaginationParams, totalCount int64) CourierListResponse {
	items := make([]CourierDTO, len(couriers))
	for i, courier := range couriers {
		items[i] = ToCourierDTO(courier)
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(totalCount) / params.Limit
		if int(totalCount)%params.Limit > 0 {
			totalPages++
		}
	}

	return CourierListResponse{
		Couriers: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: totalCount,
		},
		TotalPages: totalPages,
	}
}
