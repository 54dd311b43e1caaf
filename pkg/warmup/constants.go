package warmup

import "time"

// API endpoints for the My Warmup cloud service
const (
	// AppEndpoint is the token-issuing authentication endpoint
	AppEndpoint = "https://api.warmup.com/apps/app/v1"

	// QueryEndpoint is the GraphQL query/mutation endpoint
	QueryEndpoint = "https://apil.warmup.com/graphql"
)

// Fixed headers sent on every call to the vendor API
const (
	userAgent           = "WARMUP_APP"
	headerAppToken      = "App-Token"
	headerAuthorization = "Warmup-Authorization"

	// appToken is the static application token the vendor app ships with
	appToken = `M=;He<Xtg"$}4N%5k{$:PD+WA"]D<;#PriteY|VTuA>_iyhs+vA"4lic{6-LqNM:RiKqUpCbm-I0q91nhi2rziatnauvbg==`
)

// Credentials constants for the vendor login method
const (
	authMethod = "userLogin"
	authAppID  = "WARMUP-APP-V001"
)

// callTimeout is the fixed per-call timeout for every HTTP exchange
const callTimeout = 10 * time.Second

// authFailureBudget is the number of consecutive authentication failures
// tolerated before a terminal AuthenticationError is raised
const authFailureBudget = 2
