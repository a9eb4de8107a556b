package common

// ScopePrivate is the sharing destination that addresses the user's own
// diary, as opposed to a named group id.
const ScopePrivate = "private"

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// access token on outbound requests.
const AuthorizationHeaderName = "Authorization"
