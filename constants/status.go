package constants

import "strings"

// Grievance lifecycle states. Transitions only move forward:
// pending -> in-process -> solved, with solved terminal.
const (
	StatusPending   = "pending"
	StatusInProcess = "in-process"
	StatusSolved    = "solved"
)

func AllStatuses() []string {
	return []string{StatusPending, StatusInProcess, StatusSolved}
}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

func StatusList() string {
	return strings.Join(AllStatuses(), ", ")
}

// StatusRank orders the lifecycle for the forward-only transition check.
// Unknown statuses rank below pending so they never pass the check.
func StatusRank(status string) int {
	switch status {
	case StatusPending:
		return 0
	case StatusInProcess:
		return 1
	case StatusSolved:
		return 2
	default:
		return -1
	}
}
