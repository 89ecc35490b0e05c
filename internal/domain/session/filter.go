package session

import "strings"

// Filter narrows a reconstructed session list for display.
type Filter struct {
	Status   SessionStatus
	Username string
	// Search matches case-insensitively against username, role and page names.
	Search string
	Limit  int
}

// Apply returns the sessions matching every non-empty field of f, preserving order.
func (f Filter) Apply(sessions []Session) []Session {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Username != "" && !strings.EqualFold(s.Username, f.Username) {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		out = append(out, s)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func matchesSearch(s Session, needle string) bool {
	if strings.Contains(strings.ToLower(s.Username), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Role), needle) {
		return true
	}
	for _, page := range s.PagesVisited {
		if strings.Contains(strings.ToLower(page), needle) {
			return true
		}
	}
	return false
}
