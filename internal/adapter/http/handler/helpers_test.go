package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntOr(t *testing.T) {
	assert.Equal(t, 12, parseIntOr("", 12))
	assert.Equal(t, 12, parseIntOr("abc", 12))
	assert.Equal(t, 3, parseIntOr("3", 12))
	assert.Equal(t, -1, parseIntOr("-1", 12))
}

func TestParseFloatOr(t *testing.T) {
	assert.Equal(t, 0.0, parseFloatOr("", 0))
	assert.Equal(t, 0.0, parseFloatOr("x", 0))
	assert.Equal(t, 199000.5, parseFloatOr("199000.5", 0))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:51234"
	assert.Equal(t, "10.1.2.3", clientIP(r))

	r.RemoteAddr = "[::1]:51234"
	assert.Equal(t, "::1", clientIP(r))

	// RealIP may have rewritten RemoteAddr to a bare host.
	r.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", clientIP(r))
}
