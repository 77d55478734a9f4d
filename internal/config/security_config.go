package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No session required
	SecurityCustomer                      // Any valid session
	SecurityAdmin                         // Valid session with an admin role
)

// Route names registered on the HTTP router.
const (
	RouteHealth             = "health"
	RouteMetrics            = "metrics"
	RouteSessionGet         = "session.get"
	RouteSessionDelete      = "session.delete"
	RouteUnitQuote          = "units.quote"
	RouteUnitAvailability   = "units.availability"
	RouteUnitsFree          = "units.free"
	RouteWarehouseFreeUnits = "warehouses.free_units"
	RouteUnitBookings       = "units.bookings"
	RouteBookingCreate      = "bookings.create"
	RouteBookingGet         = "bookings.get"
	RouteBookingCustomer    = "bookings.customer"
	RouteBookingFinalize    = "bookings.finalize"
	RouteBookingCancel      = "bookings.cancel"
	RouteBookingComplete    = "bookings.complete"
	RouteBookingPayment     = "bookings.payment"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	RouteHealth:  SecurityPublic,
	RouteMetrics: SecurityPublic,

	RouteSessionGet:         SecurityCustomer,
	RouteSessionDelete:      SecurityCustomer,
	RouteUnitQuote:          SecurityCustomer,
	RouteUnitAvailability:   SecurityCustomer,
	RouteUnitsFree:          SecurityCustomer,
	RouteWarehouseFreeUnits: SecurityCustomer,
	RouteBookingCreate:      SecurityCustomer,
	RouteBookingGet:         SecurityCustomer,
	RouteBookingCustomer:    SecurityCustomer,
	RouteBookingFinalize:    SecurityCustomer,
	RouteBookingCancel:      SecurityCustomer,

	// Admin dashboards
	RouteUnitBookings:    SecurityAdmin,
	RouteBookingComplete: SecurityAdmin,
	RouteBookingPayment:  SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Unknown routes still require a session
	return SecurityCustomer
}
