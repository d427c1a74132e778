package sec

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedHeader is returned when an Authorization header uses the Basic
// scheme but is structurally invalid.
const ErrMalformedHeader Error = "malformed authorization header"

// Credentials is the decoded nickname/password pair from a Basic
// Authorization header. It is request-scoped and never stored.
type Credentials struct {
	Nickname string
	Password string
}

// ParseBasicAuth decodes an Authorization header value of the form
// "Basic base64(nickname:password)". The scheme token is matched
// case-insensitively. isBasic is false when the header is absent or uses a
// different scheme; that is a distinct signal from a malformed Basic attempt,
// which returns an error wrapping [ErrMalformedHeader].
//
// Only the first colon of the decoded text delimits the nickname, so the
// password may itself contain colons.
func ParseBasicAuth(header string) (creds Credentials, isBasic bool, err error) {
	parts := strings.Fields(header)
	if len(parts) == 0 || !strings.EqualFold(parts[0], "basic") {
		return creds, false, nil
	}
	if len(parts) == 1 {
		return creds, true, fmt.Errorf("%w: no credentials provided", ErrMalformedHeader)
	}
	if len(parts) > 2 {
		return creds, true, fmt.Errorf("%w: token must not contain spaces", ErrMalformedHeader)
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return creds, true, fmt.Errorf("%w: could not decode token: %w", ErrMalformedHeader, err)
	}
	if !utf8.Valid(decoded) {
		return creds, true, fmt.Errorf("%w: token is not valid UTF-8", ErrMalformedHeader)
	}

	nickname, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return creds, true, fmt.Errorf("%w: token has no nickname:password separator", ErrMalformedHeader)
	}
	return Credentials{Nickname: nickname, Password: password}, true, nil
}
