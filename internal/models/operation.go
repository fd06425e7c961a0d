package models

import "time"

type OperationKind string

const (
	OperationFetch  OperationKind = "fetch"
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
	OperationStats  OperationKind = "stats"
)

type Outcome string

const (
	// OutcomeSynced means the backend accepted the operation.
	OutcomeSynced Outcome = "synced"
	// OutcomeLocal means the operation only took effect in the local store.
	OutcomeLocal Outcome = "local"
)

type Operation struct {
	ID           int64         `json:"id"`
	Kind         OperationKind `json:"kind"`
	TaskID       string        `json:"task_id,omitempty"`
	Outcome      Outcome       `json:"outcome"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
