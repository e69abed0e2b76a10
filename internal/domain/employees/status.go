package employees

import "strings"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusPostponed Status = "postponed"
	StatusUnknown   Status = "unknown"
)

var statusMarkers = []struct {
	status  Status
	markers []string
}{
	{StatusOverdue, []string{"просрочена", "overdue"}},
	{StatusPostponed, []string{"отложена", "postponed"}},
	{StatusCompleted, []string{"завершена", "completed"}},
}

// ParseStatus matches raw server status strings case-insensitively by substring.
// Strings that match no marker, including the empty string, map to StatusUnknown.
func ParseStatus(raw string) Status {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return StatusUnknown
	}
	for _, candidate := range statusMarkers {
		for _, marker := range candidate.markers {
			if strings.Contains(normalized, marker) {
				return candidate.status
			}
		}
	}
	return StatusUnknown
}

func (s Status) String() string {
	return string(s)
}

// Matches reports whether raw carries one of the markers of s.
// Unlike ParseStatus it does not stop at the first matching status.
func Matches(raw string, s Status) bool {
	normalized := strings.ToLower(raw)
	for _, candidate := range statusMarkers {
		if candidate.status != s {
			continue
		}
		for _, marker := range candidate.markers {
			if strings.Contains(normalized, marker) {
				return true
			}
		}
	}
	return false
}
