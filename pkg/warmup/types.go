package warmup

// Credentials holds the My Warmup account login details.
// The method and app identifier are fixed by the vendor app and filled in
// by the client when building the authentication request.
type Credentials struct {
	Username string
	Password string
}

// OnOff represents the current state of a toggleable command (frost protection)
type OnOff string

// OnOff states as reported by callers
const (
	On  OnOff = "ON"
	Off OnOff = "OFF"
)

// authRequest is the body sent to the authentication endpoint
type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Method   string `json:"method"`
	AppID    string `json:"appId"`
}

// authResponse is the body returned by the authentication endpoint
type authResponse struct {
	Status struct {
		Result string `json:"result"`
	} `json:"status"`
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
}

// graphQLRequest wraps a GraphQL-style query string for the query endpoint
type graphQLRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the decoded body of a GraphQL query or mutation.
// Beyond the Status field the payload is passed through to callers untouched.
type QueryResponse struct {
	Status string `json:"status"`
	Data   struct {
		User struct {
			Locations []Location `json:"locations"`
		} `json:"user"`
	} `json:"data"`
}

// Location is a My Warmup location (a property) containing heated rooms
type Location struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Rooms []Room `json:"rooms"`
}

// Room is a heated room with its current run state.
// Temperatures are in the vendor's fixed-point representation (degrees x 10).
type Room struct {
	ID          int          `json:"id"`
	Name        string       `json:"roomName"`
	RunMode     string       `json:"runMode"`
	OverrideDur int          `json:"overrideDur"`
	TargetTemp  int          `json:"targetTemp"`
	CurrentTemp int          `json:"currentTemp"`
	Thermostats []Thermostat `json:"thermostat4ies"`
}

// Thermostat identifies a physical 4iE thermostat device in a room
type Thermostat struct {
	DeviceSN string `json:"deviceSN"`
}

// EncodeTemperature converts degrees to the vendor's fixed-point integer
// representation (value x 10, truncated)
func EncodeTemperature(degrees float64) int {
	return int(degrees * 10)
}

// DecodeTemperature converts a vendor fixed-point temperature back to degrees
func DecodeTemperature(fixed int) float64 {
	return float64(fixed) / 10
}
