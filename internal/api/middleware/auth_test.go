package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well-formed bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"no header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"lowercase scheme", "bearer abc.def.ghi", ""},
		{"bare token", "abc.def.ghi", ""},
		{"extra segments", "Bearer abc def", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, extractBearerToken(req))
		})
	}
}

func TestGetUserIDAbsent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)

	_, ok = GetClaims(req)
	assert.False(t, ok)
}
