package webhook

import "encoding/json"

// EventCheckoutCompleted is the only event type that mutates the ledger.
// Everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is the subset of the provider's webhook envelope this service reads.
// The provider-assigned event ID is the idempotency key; the same logical
// event always arrives with the same ID no matter how many times it is
// redelivered.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ClientReferenceID string `json:"client_reference_id"`
			CustomerEmail     string `json:"customer_email"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a raw webhook payload.
func ParseEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// PurchaserEmail returns the email the payment should be attributed to.
// The checkout initiator sets client_reference_id to the verified email;
// customer_email is the fallback for sessions created outside this system.
func (e Event) PurchaserEmail() string {
	if e.Data.Object.ClientReferenceID != "" {
		return e.Data.Object.ClientReferenceID
	}
	return e.Data.Object.CustomerEmail
}
