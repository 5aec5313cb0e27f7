package images

import "encoding/json"

// DeletionEvent asks the worker to remove one CDN asset.
type DeletionEvent struct {
	PublicID string `json:"public_id"`
	Source   string `json:"source"`
}

// Encode serializes the event for the message payload.
func (e DeletionEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeDeletionEvent parses a message payload back into an event.
func DecodeDeletionEvent(data []byte) (DeletionEvent, error) {
	var event DeletionEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
