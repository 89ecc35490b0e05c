package session

// Stats summarizes a session list for dashboard headers.
type Stats struct {
	TotalSessions     int   `json:"total_sessions"`
	ActiveSessions    int   `json:"active_sessions"`
	CompletedSessions int   `json:"completed_sessions"`
	ExpiredSessions   int   `json:"expired_sessions"`
	UniqueUsers       int   `json:"unique_users"`
	TotalEvents       int   `json:"total_events"`
	TotalPageVisits   int   `json:"total_page_visits"`
	AverageDurationMs int64 `json:"average_duration_ms"`
}

// Summarize computes Stats over sessions.
func Summarize(sessions []Session) Stats {
	var stats Stats
	users := make(map[string]struct{})
	var totalDuration int64
	for _, s := range sessions {
		stats.TotalSessions++
		switch s.Status {
		case StatusActive:
			stats.ActiveSessions++
		case StatusCompleted:
			stats.CompletedSessions++
		case StatusExpired:
			stats.ExpiredSessions++
		}
		users[s.Username] = struct{}{}
		stats.TotalEvents += s.EventCount()
		stats.TotalPageVisits += s.PageVisitCount
		totalDuration += s.DurationMs
	}
	stats.UniqueUsers = len(users)
	if stats.TotalSessions > 0 {
		stats.AverageDurationMs = totalDuration / int64(stats.TotalSessions)
	}
	return stats
}
