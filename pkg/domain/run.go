package domain

import "time"

// Run is a persisted evaluation.
type Run struct {
	ID        string    `json:"id"`
	Machine   string    `json:"machine,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`

	// Sealed holds the encrypted outcome when the store encrypts runs at rest.
	// It is empty on runs handed to callers.
	Sealed string `json:"sealed,omitempty"`
}
