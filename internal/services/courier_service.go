package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"github.com/yukikurage/task-tracker-api/internal/validation"
	"gorm.io/gorm"
)

// CourierService handles the courier log
type CourierService struct {
	courierRepo repository.CourierRepository
	generate    func(time.Time) (string, error)
	now         func() time.Time
}

// NewCourierService creates a new CourierService
func NewCourierService(courierRepo repository.CourierRepository) *CourierService {
	return &CourierService{
		courierRepo: courierRepo,
		generate:    utils.GenerateTrackingNumber,
		now:         time.Now,
	}
}

// CreateCourierInput represents a new courier entry. An empty TrackingNumber
// is generated; an empty Status means Received.
type CreateCourierInput struct {
	SenderName     string
	ReceiverName   string
	CourierType    string
	TrackingNumber string
	Status         models.CourierStatus
	ReceivedDate   *time.Time
	DeliveredDate  *time.Time
	Remarks        string
	CreatorID      uint64

	ReceivedDateMalformed  bool
	DeliveredDateMalformed bool
}

// UpdateCourierInput holds the fields to change. Nil fields are left as is.
type UpdateCourierInput struct {
	SenderName    *string
	ReceiverName  *string
	CourierType   *string
	Status        *models.CourierStatus
	DeliveredDate *time.Time
	Remarks       *string

	DeliveredDateMalformed bool
}

// ListCouriersInput filters the courier log
type ListCouriersInput struct {
	Search     string
	Status     *models.CourierStatus
	Pagination utils.PaginationParams
}

// CreateCourier validates and stores an entry, generating a tracking number when none is given
func (s *CourierService) CreateCourier(input CreateCourierInput) (*models.Courier, error) {
	if input.Status == "" {
		input.Status = models.CourierStatusReceived
	}
	trackingNumber := strings.TrimSpace(input.TrackingNumber)

	violations := validation.Collect(
		validation.CourierParty("Sender", input.SenderName),
		validation.CourierParty("Receiver", input.ReceiverName),
		validation.CourierType(input.CourierType),
		validation.CourierStatus(input.Status),
	)
	if trackingNumber != "" {
		violations = append(violations, validation.TrackingNumber(trackingNumber)...)
	}
	if input.ReceivedDateMalformed {
		violations = append(violations, validation.DateFormat("received date")...)
	}
	if input.DeliveredDateMalformed {
		violations = append(violations, validation.DateFormat("delivered date")...)
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	if trackingNumber == "" {
		generated, err := s.nextTrackingNumber()
		if err != nil {
			return nil, err
		}
		trackingNumber = generated
	} else {
		exists, err := s.courierRepo.ExistsTrackingNumber(trackingNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check tracking number: %w", err)
		}
		if exists {
			return nil, ErrTrackingNumberTaken
		}
	}

	now := s.now()
	received := now
	if input.ReceivedDate != nil && !input.ReceivedDate.IsZero() {
		received = *input.ReceivedDate
	}

	courier := &models.Courier{
		SenderName:     strings.TrimSpace(input.SenderName),
		ReceiverName:   strings.TrimSpace(input.ReceiverName),
		CourierType:    strings.TrimSpace(input.CourierType),
		TrackingNumber: trackingNumber,
		Status:         input.Status,
		ReceivedDate:   received,
		DeliveredDate:  input.DeliveredDate,
		Remarks:        strings.TrimSpace(input.Remarks),
		CreatedBy:      input.CreatorID,
	}
	if courier.Status == models.CourierStatusDelivered && courier.DeliveredDate == nil {
		courier.DeliveredDate = &now
	}

	if err := s.courierRepo.Create(courier); err != nil {
		// lost the race between the uniqueness check and the insert
		if isDuplicate(err) {
			return nil, ErrTrackingNumberTaken
		}
		return nil, fmt.Errorf("failed to create courier: %w", err)
	}

	return s.GetCourier(courier.ID)
}

// nextTrackingNumber generates candidates until an unused one is found
func (s *CourierService) nextTrackingNumber() (string, error) {
	for attempt := 0; attempt < constants.TrackingNumberMaxAttempts; attempt++ {
		candidate, err := s.generate(s.now())
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking number: %w", err)
		}

		exists, err := s.courierRepo.ExistsTrackingNumber(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check tracking number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", &apierrors.UnavailableError{
		Message: fmt.Sprintf("Could not generate a unique tracking number after %d attempts", constants.TrackingNumberMaxAttempts),
	}
}

// GetCourier returns one entry with its creator
func (s *CourierService) GetCourier(id uint64) (*models.Courier, error) {
	courier, err := s.courierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourierNotFound
		}
		return nil, fmt.Errorf("failed to find courier: %w", err)
	}
	return courier, nil
}

// ListCouriers searches the log, newest first
func (s *CourierService) ListCouriers(input ListCouriersInput) ([]models.Courier, int64, error) {
	if input.Status != nil {
		if err := apierrors.NewValidationError(validation.CourierStatus(*input.Status)); err != nil {
			return nil, 0, err
		}
	}

	couriers, total, err := s.courierRepo.List(repository.CourierFilter{
		Search:     input.Search,
		Status:     input.Status,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list couriers: %w", err)
	}
	return couriers, total, nil
}

// UpdateCourier applies the supplied fields. The tracking number never changes.
func (s *CourierService) UpdateCourier(id uint64, input UpdateCourierInput) (*models.Courier, error) {
	courier, err := s.GetCourier(id)
	if err != nil {
		return nil, err
	}

	var violations []string
	if input.SenderName != nil {
		violations = append(violations, validation.CourierParty("Sender", *input.SenderName)...)
	}
	if input.ReceiverName != nil {
		violations = append(violations, validation.CourierParty("Receiver", *input.ReceiverName)...)
	}
	if input.CourierType != nil {
		violations = append(violations, validation.CourierType(*input.CourierType)...)
	}
	if input.Status != nil {
		violations = append(violations, validation.CourierStatus(*input.Status)...)
	}
	if input.DeliveredDateMalformed {
		violations = append(violations, validation.DateFormat("delivered date")...)
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	if input.SenderName != nil {
		courier.SenderName = strings.TrimSpace(*input.SenderName)
	}
	if input.ReceiverName != nil {
		courier.ReceiverName = strings.TrimSpace(*input.ReceiverName)
	}
	if input.CourierType != nil {
		courier.CourierType = strings.TrimSpace(*input.CourierType)
	}
	if input.Remarks != nil {
		courier.Remarks = strings.TrimSpace(*input.Remarks)
	}
	if input.DeliveredDate != nil {
		delivered := *input.DeliveredDate
		courier.DeliveredDate = &delivered
	}
	if input.Status != nil {
		courier.Status = *input.Status
		if courier.Status == models.CourierStatusDelivered && courier.DeliveredDate == nil {
			now := s.now()
			courier.DeliveredDate = &now
		}
	}

	if err := s.courierRepo.Update(courier); err != nil {
		return nil, fmt.Errorf("failed to update courier: %w", err)
	}

	return s.GetCourier(id)
}

// DeleteCourier removes an entry
func (s *CourierService) DeleteCourier(id uint64) error {
	if err := s.courierRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourierNotFound
		}
		return fmt.Errorf("failed to delete courier: %w", err)
	}
	return nil
}
