package activity

import "time"

// ActivityType identifies the user action an event records.
type ActivityType string

const (
	TypeLogin            ActivityType = "login"
	TypeLogout           ActivityType = "logout"
	TypePageNavigation   ActivityType = "page_navigation"
	TypeCreateRecipe     ActivityType = "create_recipe"
	TypeUpdateRecipe     ActivityType = "update_recipe"
	TypeDeleteRecipe     ActivityType = "delete_recipe"
	TypeViewRecipe       ActivityType = "view_recipe"
	TypeFavoriteRecipe   ActivityType = "favorite_recipe"
	TypeUnfavoriteRecipe ActivityType = "unfavorite_recipe"
	TypeSearchRecipes    ActivityType = "search_recipes"
	TypeUploadFile       ActivityType = "upload_file"
	TypeViewAdmin        ActivityType = "view_admin"
	TypeAPIAccess        ActivityType = "api_access"
)

var knownTypes = map[ActivityType]struct{}{
	TypeLogin:            {},
	TypeLogout:           {},
	TypePageNavigation:   {},
	TypeCreateRecipe:     {},
	TypeUpdateRecipe:     {},
	TypeDeleteRecipe:     {},
	TypeViewRecipe:       {},
	TypeFavoriteRecipe:   {},
	TypeUnfavoriteRecipe: {},
	TypeSearchRecipes:    {},
	TypeUploadFile:       {},
	TypeViewAdmin:        {},
	TypeAPIAccess:        {},
}

// Known reports whether t is one of the recognized activity types.
// Unknown types are still valid events.
func (t ActivityType) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Details is the optional structured payload attached to an event.
type Details struct {
	Endpoint       string `json:"endpoint,omitempty"`
	Method         string `json:"method,omitempty"`
	StatusCode     int    `json:"status_code,omitempty"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
}

// Event is a single logged user action.
type Event struct {
	ID           string       `json:"id"`
	TenantID     string       `json:"tenant_id,omitempty"`
	Username     string       `json:"username"`
	Role         string       `json:"role"`
	ActivityType ActivityType `json:"activity_type"`
	Details      *Details     `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Endpoint returns the navigation endpoint, or "" when the event has none.
func (e Event) Endpoint() string {
	if e.Details == nil {
		return ""
	}
	return e.Details.Endpoint
}
