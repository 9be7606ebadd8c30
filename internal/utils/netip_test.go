package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHostNoPort(t *testing.T) {
	assert.Equal(t, "10.0.0.1", ParseHostNoPort("10.0.0.1:8080"))
	assert.Equal(t, "::1", ParseHostNoPort("[::1]:8080"))
	assert.Equal(t, "10.0.0.1", ParseHostNoPort("10.0.0.1"))
	assert.Equal(t, "", ParseHostNoPort(""))
}

func TestFirstForwardedFor(t *testing.T) {
	assert.Equal(t, "203.0.113.1", FirstForwardedFor(" 203.0.113.1 , 10.0.0.1"))
	assert.Equal(t, "", FirstForwardedFor(""))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 127.0.0.1")

	assert.Equal(t, "127.0.0.1", ClientIP(req, false))
	assert.Equal(t, "203.0.113.7", ClientIP(req, true))

	req.Header.Set("CF-Connecting-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(req, true))
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "garbage", ""})

	assert.False(t, m.IsEmpty())
	assert.True(t, m.Allow("10.20.30.40"))
	assert.True(t, m.Allow("192.168.1.5"))
	assert.True(t, m.Allow("::ffff:10.0.0.1"))
	assert.False(t, m.Allow("192.168.1.6"))
	assert.False(t, m.Allow("not-an-ip"))

	assert.True(t, NewIPMatcher(nil).IsEmpty())
}
