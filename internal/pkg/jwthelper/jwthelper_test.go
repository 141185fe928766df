package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	key := []byte("secret")

	token, err := GenerateToken(key, 7, "curl/8.0")
	require.NoError(t, err)

	id, err := ParseToken(key, token, "curl/8.0")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
}

func TestParseToken_Rejects(t *testing.T) {
	key := []byte("secret")
	token, err := GenerateToken(key, 7, "curl/8.0")
	require.NoError(t, err)

	tests := []struct {
		name      string
		key       []byte
		token     string
		userAgent string
	}{
		{name: "wrong key", key: []byte("other"), token: token, userAgent: "curl/8.0"},
		{name: "other user agent", key: key, token: token, userAgent: "firefox"},
		{name: "garbage", key: key, token: "not.a.token", userAgent: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.key, tt.token, tt.userAgent)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
