package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"github.com/yukikurage/task-tracker-api/internal/validation"
)

type CourierServiceTestSuite struct {
	serviceSuite
}

func TestCourierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CourierServiceTestSuite))
}

func (s *CourierServiceTestSuite) input() CreateCourierInput {
	return CreateCourierInput{
		SenderName:   "Acme Supplies",
		ReceiverName: "Front Desk",
		CourierType:  "Parcel",
		CreatorID:    s.admin.ID,
	}
}

func (s *CourierServiceTestSuite) TestCreateCourier_GeneratesDistinctTrackingNumbers() {
	first, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)
	second, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)

	s.True(validation.IsTrackingNumber(first.TrackingNumber))
	s.True(validation.IsTrackingNumber(second.TrackingNumber))
	s.NotEqual(first.TrackingNumber, second.TrackingNumber)

	s.Equal(models.CourierStatusReceived, first.Status)
	s.Equal(s.now, first.ReceivedDate.UTC())
	s.Nil(first.DeliveredDate)
	s.Equal(s.admin.ID, first.Creator.ID)
}

func (s *CourierServiceTestSuite) TestCreateCourier_RetriesOnCollision() {
	taken, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)

	calls := 0
	s.couriers.generate = func(now time.Time) (string, error) {
		calls++
		if calls < 3 {
			return taken.TrackingNumber, nil
		}
		return utils.GenerateTrackingNumber(now)
	}

	created, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)
	s.Equal(3, calls)
	s.NotEqual(taken.TrackingNumber, created.TrackingNumber)
}

func (s *CourierServiceTestSuite) TestCreateCourier_GivesUpAfterMaxAttempts() {
	taken, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)

	calls := 0
	s.couriers.generate = func(time.Time) (string, error) {
		calls++
		return taken.TrackingNumber, nil
	}

	_, err = s.couriers.CreateCourier(s.input())
	var unavailable *apierrors.UnavailableError
	s.True(errors.As(err, &unavailable))
	s.Equal(10, calls)
}

func (s *CourierServiceTestSuite) TestCreateCourier_ExplicitTrackingNumber() {
	in := s.input()
	in.TrackingNumber = "TRK123456789012"

	created, err := s.couriers.CreateCourier(in)
	s.Require().NoError(err)
	s.Equal("TRK123456789012", created.TrackingNumber)

	_, err = s.couriers.CreateCourier(in)
	s.ErrorIs(err, ErrTrackingNumberTaken)

	in.TrackingNumber = "TRK-1"
	_, err = s.couriers.CreateCourier(in)
	var ve *apierrors.ValidationError
	s.True(errors.As(err, &ve))
}

func (s *CourierServiceTestSuite) TestCreateCourier_Validation() {
	_, err := s.couriers.CreateCourier(CreateCourierInput{
		SenderName:   "A",
		ReceiverName: "Desk 42",
		CourierType:  "",
		Status:       "Lost",
	})

	var ve *apierrors.ValidationError
	s.Require().True(errors.As(err, &ve))
	s.Equal([]string{
		"Sender name must contain only letters and spaces (2-50 characters)",
		"Receiver name must contain only letters and spaces (2-50 characters)",
		"Courier type is required (minimum 2 characters)",
		"Invalid status. Must be Received or Delivered",
	}, ve.Violations)
}

func (s *CourierServiceTestSuite) TestCreateCourier_DeliveredWithoutDateIsStamped() {
	in := s.input()
	in.Status = models.CourierStatusDelivered

	created, err := s.couriers.CreateCourier(in)
	s.Require().NoError(err)
	s.Require().NotNil(created.DeliveredDate)
	s.Equal(s.now, created.DeliveredDate.UTC())
}

func (s *CourierServiceTestSuite) TestUpdateCourier() {
	created, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)

	delivered := models.CourierStatusDelivered
	remarks := "Signed by reception"
	s.setClock(s.now.Add(2 * time.Hour))

	updated, err := s.couriers.UpdateCourier(created.ID, UpdateCourierInput{Status: &delivered, Remarks: &remarks})
	s.Require().NoError(err)
	s.Equal(models.CourierStatusDelivered, updated.Status)
	s.Equal("Signed by reception", updated.Remarks)
	s.Require().NotNil(updated.DeliveredDate)
	s.Equal(s.now, updated.DeliveredDate.UTC())
	s.Equal(created.TrackingNumber, updated.TrackingNumber)

	bad := "X"
	_, err = s.couriers.UpdateCourier(created.ID, UpdateCourierInput{SenderName: &bad})
	var ve *apierrors.ValidationError
	s.True(errors.As(err, &ve))

	_, err = s.couriers.UpdateCourier(9999, UpdateCourierInput{Remarks: &remarks})
	s.ErrorIs(err, ErrCourierNotFound)
}

func (s *CourierServiceTestSuite) TestListCouriers() {
	for _, sender := range []string{"Acme Supplies", "Globex", "Acme Logistics"} {
		in := s.input()
		in.SenderName = sender
		_, err := s.couriers.CreateCourier(in)
		s.Require().NoError(err)
	}

	couriers, total, err := s.couriers.ListCouriers(ListCouriersInput{
		Search:     "acme",
		Pagination: utils.PaginationParams{Page: 1, Limit: 1, Offset: 0},
	})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(couriers, 1)

	lost := models.CourierStatus("Lost")
	_, _, err = s.couriers.ListCouriers(ListCouriersInput{Status: &lost})
	var ve *apierrors.ValidationError
	s.True(errors.As(err, &ve))
}

func (s *CourierServiceTestSuite) TestDeleteCourier() {
	created, err := s.couriers.CreateCourier(s.input())
	s.Require().NoError(err)

	s.Require().NoError(s.couriers.DeleteCourier(created.ID))
	_, err = s.couriers.GetCourier(created.ID)
	s.ErrorIs(err, ErrCourierNotFound)
	s.ErrorIs(s.couriers.DeleteCourier(created.ID), ErrCourierNotFound)
}
