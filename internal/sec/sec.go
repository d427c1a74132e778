// Package sec provides the authentication and authorization layer for the
// On Way Study API.
//
// # Authentication
//
// Authentication uses HTTP Basic Auth keyed on the user's nickname rather
// than a platform username. Credentials are validated against bcrypt password
// hashes stored in the database. A single action is exempt: POST /users, so
// that a not-yet-registered client can create an account.
//
// IMPORTANT: Basic Auth transmits credentials in base64 encoding (not
// encrypted). TLS must be used in production to protect credentials in
// transit.
//
// # API signature
//
// Independently of user identity, every request must carry the shared-secret
// X-On-Way-Study-Api-Signature header. [RequireSignature] gates all requests
// before routing, except administrative paths and CORS pre-flight.
//
// # Components
//
//   - [ParseBasicAuth]: Decodes the Authorization header into credentials
//   - [Authenticate]: Validates credentials against the user store
//   - [Authn]: Echo middleware running the authentication gate per request
//   - [RequireSignature]: Echo middleware validating the API signature header
//   - [IsOwner]: The ownership authorization policy
//   - [GetAuthenticatedUser], [SetAuthenticatedUser]: Context accessors
//   - [HashPassword], [ComparePassword]: bcrypt password hashing utilities
package sec

// Error is an error type returned by the authentication layer. The values
// are the error taxonomy callers branch on with [errors.Is].
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }
