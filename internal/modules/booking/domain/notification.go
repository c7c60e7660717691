package domain

import (
	"encoding/json"
	"strings"
)

// CustomerID is the remote store's customer identifier. Scheduling vendors
// deliver it either as a JSON string or as a number, so it unmarshals from
// both and is carried as its decimal string form.
type CustomerID string

func (id *CustomerID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CustomerID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = CustomerID(n.String())
	return nil
}

func (id CustomerID) String() string {
	return string(id)
}

// AppointmentDetails is scheduling metadata carried through for logging and
// the response payload only. It never participates in tag computation.
type AppointmentDetails struct {
	EventType  string `json:"event_type,omitempty"`
	AssignedTo string `json:"assigned_to,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	Location   string `json:"location,omitempty"`
}

// BookingNotification is the validated inbound webhook payload.
//
// TagsBefore distinguishes "caller supplied a value" (non-nil) from "field
// absent" (nil); an empty supplied string still forces a fresh fetch.
type BookingNotification struct {
	CustomerID    CustomerID          `json:"customer_id" validate:"required"`
	CustomerEmail string              `json:"customer_email" validate:"required"`
	Appointment   *AppointmentDetails `json:"appointment_details,omitempty"`
	TagsBefore    *string             `json:"customer_tags_before,omitempty"`
	Timestamp     string              `json:"timestamp,omitempty"`
}

// EventType returns the appointment event type when provided.
func (n *BookingNotification) EventType() string {
	if n.Appointment == nil {
		return ""
	}
	return n.Appointment.EventType
}
