package domain

import (
	"encoding/json"
	"testing"
)

func TestCustomerIDUnmarshalsStringAndNumber(t *testing.T) {
	t.Parallel()

	var fromString BookingNotification
	if err := json.Unmarshal([]byte(`{"customer_id":" 8231 ","customer_email":"a@b.co"}`), &fromString); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	if fromString.CustomerID.String() != "8231" {
		t.Fatalf("unexpected id from string: %s", fromString.CustomerID)
	}

	var fromNumber BookingNotification
	if err := json.Unmarshal([]byte(`{"customer_id":8231,"customer_email":"a@b.co"}`), &fromNumber); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if fromNumber.CustomerID.String() != "8231" {
		t.Fatalf("unexpected id from number: %s", fromNumber.CustomerID)
	}
}

func TestTagsBeforeDistinguishesAbsentFromEmpty(t *testing.T) {
	t.Parallel()

	var absent BookingNotification
	if err := json.Unmarshal([]byte(`{"customer_id":"1","customer_email":"a@b.co"}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.TagsBefore != nil {
		t.Fatal("expected nil TagsBefore when field absent")
	}

	var empty BookingNotification
	if err := json.Unmarshal([]byte(`{"customer_id":"1","customer_email":"a@b.co","customer_tags_before":""}`), &empty); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if empty.TagsBefore == nil || *empty.TagsBefore != "" {
		t.Fatalf("expected empty supplied string, got %#v", empty.TagsBefore)
	}
}

func TestEventTypeWithoutAppointmentDetails(t *testing.T) {
	t.Parallel()

	n := BookingNotification{}
	if got := n.EventType(); got != "" {
		t.Fatalf("expected empty event type, got %s", got)
	}
	n.Appointment = &AppointmentDetails{EventType: "consultation"}
	if got := n.EventType(); got != "consultation" {
		t.Fatalf("unexpected event type: %s", got)
	}
}
