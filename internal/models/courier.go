package models

import "time"

type CourierStatus string

const (
	CourierStatusReceived  CourierStatus = "Received"
	CourierStatusDelivered CourierStatus = "Delivered"
)

func (s CourierStatus) Valid() bool {
	return s == CourierStatusReceived || s == CourierStatusDelivered
}

type Courier struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	SenderName     string        `gorm:"type:varchar(50);not null" json:"sender_name"`
	ReceiverName   string        `gorm:"type:varchar(50);not null" json:"receiver_name"`
	CourierType    string        `gorm:"type:varchar(50);not null" json:"courier_type"`
	TrackingNumber string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"tracking_number"`
	Status         CourierStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReceivedDate   time.Time     `gorm:"not null" json:"received_date"`
	DeliveredDate  *time.Time    `json:"delivered_date"`
	Remarks        string        `gorm:"type:text" json:"remarks,omitempty"`
	CreatedBy      uint64        `gorm:"not null;index" json:"created_by"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations
	Creator User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}
