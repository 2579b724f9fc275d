package models

// Person roles form a closed set.
const (
	RoleAdmin    = "ADMIN"
	RoleMod      = "MOD"
	RoleVerified = "VERIFIED"
)

// Presence buckets derived from a person's last-active timestamp.
const (
	PresenceOnline  = "online"
	PresenceIdle    = "idle"
	PresenceOffline = "offline"
)

// Person is a synthetic member profile. LastActive is the only mutable
// field in the core: presence simulation updates it in place.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
	// LastActive is epoch milliseconds.
	LastActive int64 `json:"last_active"`
}
