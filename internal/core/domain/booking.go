package domain

import "time"

// BookingStatus is the lifecycle state of a booking. Only pending exists today.
type BookingStatus string

const BookingPending BookingStatus = "pending"

// Booking is a user's request for a service. ServiceName, Rate and Currency
// are copied from the service at booking time and never follow later edits.
type Booking struct {
	ID          string        `json:"id" bson:"_id"`
	UserID      string        `json:"userId" bson:"user_id"`
	ServiceID   string        `json:"serviceId" bson:"service_id"`
	ServiceName string        `json:"serviceName" bson:"service_name"`
	Rate        float64       `json:"rate" bson:"rate"`
	Currency    string        `json:"currency" bson:"currency"`
	Notes       string        `json:"notes" bson:"notes"`
	Status      BookingStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
}
