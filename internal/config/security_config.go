package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityStaff                       // Access token with admin or moderator role
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health":  SecurityPublic,
	"Metrics": SecurityPublic,
	"Quote":   SecurityPublic,

	"CreateReservation": SecurityAccess,
	"ListReservations":  SecurityAccess,
	"GetReservation":    SecurityAccess,
	"AcceptReservation": SecurityAccess,
	"RejectReservation": SecurityAccess,
	"CancelReservation": SecurityAccess,

	"OpenSuggestion":  SecurityAccess,
	"GetSuggestion":   SecurityAccess,
	"ListCandidates":  SecurityAccess,
	"SuggestProperty": SecurityAccess,
	"ListOperators":   SecurityAccess,
	"NotifyOperators": SecurityAccess,

	"CreateListing":        SecurityAccess,
	"ListMyListings":       SecurityAccess,
	"GetListing":           SecurityPublic,
	"UpdateListingPricing": SecurityAccess,
	"ToggleAmenity":        SecurityAccess,

	"Calendar": SecurityAccess,

	"ListNotifications": SecurityAccess,
	"MarkNotification":  SecurityAccess,

	// Called by the payment provider's webhook relay, which authenticates as staff.
	"ConfirmPayment": SecurityStaff,
}

// GetSecurityLevel returns the security level for a route, defaulting to SecurityAccess
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
