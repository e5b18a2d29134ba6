package credentials

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

const basicPrefix = "Basic "

// Credentials is a decoded username/password pair taken from a Basic
// Authorization header. Values are only held for the duration of identity
// resolution and must never be logged.
type Credentials struct {
	Username string
	Password string
}

// ExtractAuthorizationValue returns the encoded part of a Basic
// Authorization header. The scheme prefix is removed exactly once, so a
// payload that itself starts with "Basic" characters is left intact.
func ExtractAuthorizationValue(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	return header[len(basicPrefix):], true
}

// DecodeBase64 decodes a standard base64 value into a UTF-8 string.
// Malformed padding, bytes outside the alphabet and non UTF-8 output all
// report false.
func DecodeBase64(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// SplitCredentials splits "user:pass" on the first colon. Everything after
// it belongs to the password.
func SplitCredentials(decoded string) (Credentials, bool) {
	user, pass, found := strings.Cut(decoded, ":")
	if !found {
		return Credentials{}, false
	}
	return Credentials{Username: user, Password: pass}, true
}

// ParseBasic runs the full extraction pipeline over a raw header value.
func ParseBasic(header string) (Credentials, bool) {
	value, ok := ExtractAuthorizationValue(header)
	if !ok {
		return Credentials{}, false
	}
	decoded, ok := DecodeBase64(value)
	if !ok {
		return Credentials{}, false
	}
	return SplitCredentials(decoded)
}
