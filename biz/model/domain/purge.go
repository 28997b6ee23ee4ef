package domain

import "time"

type PurgeStatus string

const (
	PurgeSucceeded PurgeStatus = "succeeded"
	PurgeFailed    PurgeStatus = "failed"
)

// PurgeAudit describes the outcome of one full deletion request.
type PurgeAudit struct {
	PurgeID   string
	UID       int64
	CallerUID int64
	Username  string
	Status    PurgeStatus
	Phase     string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}
