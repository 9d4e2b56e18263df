package dto

import "time"

// Envelope is embedded in every action response.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func OK(message string) Envelope {
	return Envelope{Success: true, Message: message, Timestamp: time.Now().UTC()}
}

func Failed(message string) Envelope {
	return Envelope{Success: false, Message: message, Timestamp: time.Now().UTC()}
}

type MessageResponse struct {
	Envelope
}

type ErrorResponse struct {
	Envelope
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Database map[string]any `json:"database"`
}
