// Package tokencodec reads the expiry of a bearer token without verifying its
// signature. The client never holds the signing key; it only needs to know
// whether a stored token is worth presenting to the server.
package tokencodec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for any token whose payload cannot be read.
var ErrMalformedToken = errors.New("malformed token")

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeExpiry returns the exp claim of token. The token must have three
// dot-separated segments, the middle one being base64 JSON with a numeric
// exp. Both the URL and the standard base64 alphabets are accepted.
func DecodeExpiry(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: payload is not base64: %v", ErrMalformedToken, err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: payload is not JSON: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("%w: exp claim missing", ErrMalformedToken)
	}
	return exp.Time, nil
}

func decodeSegment(seg string) ([]byte, error) {
	if seg == "" {
		return nil, errors.New("empty segment")
	}
	b, err := segmentParser.DecodeSegment(seg)
	if err == nil {
		return b, nil
	}
	if b, stdErr := base64.StdEncoding.DecodeString(seg); stdErr == nil {
		return b, nil
	}
	if b, stdErr := base64.RawStdEncoding.DecodeString(seg); stdErr == nil {
		return b, nil
	}
	return nil, err
}
