package configs

import (
	"encoding/base64"
	"errors"

	"github.com/gorilla/securecookie"
)

// GenerateJWTSecret returns a URL-safe base64 string suitable for JWT_SECRET.
func GenerateJWTSecret() (string, error) {
	key := securecookie.GenerateRandomKey(48)
	if key == nil {
		return "", errors.New("could not read enough randomness for a signing key")
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}
