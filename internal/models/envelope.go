package models

// Envelope is the wrapper every backend JSON response arrives in.
type Envelope[T any] struct {
	Data      *T     `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}
