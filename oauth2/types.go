package oauth2

// TokenEndpoint is the fliPoll endpoint for every token exchange.
const TokenEndpoint = "/oauth/token"

// GrantType represents the OAuth 2.0 grant type sent to the token endpoint.
// Determines which credentials accompany the request.
type GrantType string

const (
	// ClientCredentialsGrant obtains an app access token.
	// Token request includes: client_id, client_secret
	// Returns: access_token scoped to the app, no user context
	ClientCredentialsGrant GrantType = "client_credentials"

	// AuthorizationCodeGrant exchanges an authorization code for a user token.
	// Token request includes: client_id, client_secret, code, redirect_uri
	// The redirect_uri must match the one the code was issued for.
	AuthorizationCodeGrant GrantType = "authorization_code"
)

// Token endpoint parameter names.
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamGrantType    = "grant_type"
	ParamCode         = "code"
	ParamRedirectURI  = "redirect_uri"
	ParamInputToken   = "input_token"
)
