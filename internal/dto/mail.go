package dto

import "time"

type MailMessage struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	// NotBefore is set on retries. The worker holds the message until then.
	NotBefore time.Time `json:"not_before"`
}
