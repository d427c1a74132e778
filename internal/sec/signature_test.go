package sec

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequireSignature(t *testing.T) {
	t.Parallel()

	const secret = "expected-signature-value"

	e := echo.New()
	e.Pre(RequireSignature(secret))
	e.GET("/institutions", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.OPTIONS("/institutions", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/admin/dashboard", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	do := func(method, path string, header map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for k, v := range header {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("matching signature passes", func(t *testing.T) {
		t.Parallel()
		rec := do(http.MethodGet, "/institutions", map[string]string{SignatureHeader: secret})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		rec := do(http.MethodGet, "/institutions", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Missing header required API Signature"}`, rec.Body.String())
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()
		for _, value := range []string{"", "wrong", "EXPECTED-SIGNATURE-VALUE", secret + " "} {
			rec := do(http.MethodGet, "/institutions", map[string]string{SignatureHeader: value})
			assert.Equal(t, http.StatusForbidden, rec.Code, "value %q", value)
			assert.JSONEq(t, `{"error":"Invalid header API Signature"}`, rec.Body.String(), "value %q", value)
		}
	})

	t.Run("admin paths are exempt", func(t *testing.T) {
		t.Parallel()
		rec := do(http.MethodGet, "/admin/dashboard", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("pre-flight requests are exempt", func(t *testing.T) {
		t.Parallel()
		rec := do(http.MethodOptions, "/institutions", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
