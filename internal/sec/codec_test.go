package sec

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		wantCreds Credentials
		wantBasic bool
		wantErr   bool
	}{
		{
			name:      "valid credentials",
			header:    "Basic YWxpY2U6c2VjcmV0MTIz", // alice:secret123
			wantCreds: Credentials{Nickname: "alice", Password: "secret123"},
			wantBasic: true,
		},
		{
			name:      "scheme is case-insensitive",
			header:    "basic YWxpY2U6c2VjcmV0MTIz",
			wantCreds: Credentials{Nickname: "alice", Password: "secret123"},
			wantBasic: true,
		},
		{
			name:      "password may contain colons",
			header:    "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:se:cr:et")),
			wantCreds: Credentials{Nickname: "alice", Password: "se:cr:et"},
			wantBasic: true,
		},
		{
			name:      "empty password",
			header:    "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:")),
			wantCreds: Credentials{Nickname: "alice", Password: ""},
			wantBasic: true,
		},
		{
			name:   "absent header",
			header: "",
		},
		{
			name:   "different scheme",
			header: "Bearer sometoken",
		},
		{
			name:      "scheme without token",
			header:    "Basic",
			wantBasic: true,
			wantErr:   true,
		},
		{
			name:      "token contains spaces",
			header:    "Basic a b",
			wantBasic: true,
			wantErr:   true,
		},
		{
			name:      "invalid base64",
			header:    "Basic ###",
			wantBasic: true,
			wantErr:   true,
		},
		{
			name:      "decoded text has no colon",
			header:    "Basic YWxpY2U=", // alice
			wantBasic: true,
			wantErr:   true,
		},
		{
			name:      "decoded text is not valid UTF-8",
			header:    "Basic " + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'x'}),
			wantBasic: true,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			creds, isBasic, err := ParseBasicAuth(tt.header)
			assert.Equal(t, tt.wantBasic, isBasic)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreds, creds)
		})
	}
}

func TestParseBasicAuthRoundTrip(t *testing.T) {
	t.Parallel()

	pairs := []Credentials{
		{Nickname: "alice", Password: "secret123"},
		{Nickname: "bob", Password: "p:a:s:s"},
		{Nickname: "UPPER case ", Password: " spaced out "},
		{Nickname: "ünïcødé", Password: "пароль"},
	}
	for _, want := range pairs {
		token := base64.StdEncoding.EncodeToString([]byte(want.Nickname + ":" + want.Password))
		creds, isBasic, err := ParseBasicAuth("Basic " + token)
		require.NoError(t, err)
		assert.True(t, isBasic)
		assert.Equal(t, want, creds)
	}
}
