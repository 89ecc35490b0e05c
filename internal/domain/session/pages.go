package session

var pageNames = map[string]string{
	"/":                 "Dashboard",
	"/recipes":          "Recipes",
	"/favorites":        "Favorites",
	"/admin":            "Admin Dashboard",
	"/admin/activities": "Activity Tracker",
	"/admin/issues":     "Issue Tracker",
	"/ai-chat":          "AI Chat",
	"/add-recipe":       "Add Recipe",
}

// PageName maps a navigation endpoint to its display name. Unknown endpoints
// are returned unchanged.
func PageName(endpoint string) string {
	if name, ok := pageNames[endpoint]; ok {
		return name
	}
	return endpoint
}
