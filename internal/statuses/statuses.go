package statuses

const (
	StatusWaitOpponent = "waiting_opponent"
	StatusInProgress   = "in_progress"
	StatusCompleted    = "completed"
	StatusAbandoned    = "abandoned"
)

// IsActive reports whether a game with the status can still be joined or played.
func IsActive(status string) bool {
	return status == StatusWaitOpponent || status == StatusInProgress
}
