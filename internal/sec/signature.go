package sec

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SignatureHeader is the header every API client must present, carrying the
// shared secret configured at process start.
const SignatureHeader = "X-On-Way-Study-Api-Signature"

// adminPathPrefix is exempt from the signature check; administrative access
// is gated separately.
const adminPathPrefix = "/admin/"

// RequireSignature returns a middleware that rejects any request whose
// signature header is not byte-for-byte equal to the expected value. It is
// registered with [echo.Echo.Pre] so it runs before routing and before the
// authentication gate; it is a coarse client gate, not a per-user check.
// Administrative paths and OPTIONS pre-flight requests always pass through
// unchecked.
func RequireSignature(expected string) echo.MiddlewareFunc {
	secret := []byte(expected)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodOptions || strings.HasPrefix(req.URL.Path, adminPathPrefix) {
				return next(c)
			}

			values, present := req.Header[SignatureHeader]
			if !present || len(values) == 0 {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Missing header required API Signature",
				})
			}
			if subtle.ConstantTimeCompare([]byte(values[0]), secret) != 1 {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": "Invalid header API Signature",
				})
			}
			return next(c)
		}
	}
}
