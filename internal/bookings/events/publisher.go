package events

import (
	"context"
	"time"

	"carpark/pkg/kafka"
	"carpark/pkg/logger"
	"carpark/pkg/model"

	"github.com/google/uuid"
)

const (
	eventTypeBookingConfirmed = "booking.confirmed"
	eventSource               = "carpark"
)

// BookingConfirmedEvent is the payload published after a successful
// confirmation. Publishing is best-effort and never fails the booking.
type BookingConfirmedEvent struct {
	BookingID     string    `json:"booking_id"`
	SpotID        string    `json:"spot_id"`
	SpotName      string    `json:"spot_name"`
	SelectedSlots []int     `json:"selected_slots"`
	VehicleType   string    `json:"vehicle_type"`
	NumberPlate   string    `json:"number_plate"`
	CheckInTime   time.Time `json:"check_in_time"`
	CheckOutTime  time.Time `json:"check_out_time"`
	Cost          float64   `json:"cost"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// Publisher emits booking lifecycle events.
type Publisher interface {
	BookingConfirmed(ctx context.Context, booking model.Booking)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) BookingConfirmed(ctx context.Context, booking model.Booking) {
	event := BookingConfirmedEvent{
		BookingID:     booking.ID,
		SpotID:        booking.SpotID,
		SpotName:      booking.SpotName,
		SelectedSlots: booking.SelectedSlots,
		VehicleType:   booking.VehicleType,
		NumberPlate:   booking.NumberPlate,
		CheckInTime:   booking.CheckInTime,
		CheckOutTime:  booking.CheckOutTime,
		Cost:          booking.Cost,
		ConfirmedAt:   booking.CreatedAt,
	}

	msg, err := kafka.NewMessage(booking.ID, event, uuid.NewString(), eventTypeBookingConfirmed, eventSource)
	if err != nil {
		p.log.Error("Failed to encode booking.confirmed event",
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking.confirmed event",
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	p.log.Debug("Published booking.confirmed event", "booking_id", booking.ID)
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops all events. Used when
// no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingConfirmed(context.Context, model.Booking) {}
