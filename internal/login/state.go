package login

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "guardpost/pkg/domain-errors"
)

// stateTTL bounds how long an issued OAuth state stays valid. The whole
// authorize round trip normally completes in seconds.
const stateTTL = 10 * time.Minute

// StateSigner issues and verifies the OAuth state parameter as a short-lived
// signed token, so the callback can reject requests that did not originate
// from our own login redirect.
type StateSigner struct {
	key []byte
	now func() time.Time
}

// NewStateSigner creates a StateSigner using the given HMAC key.
func NewStateSigner(key string) *StateSigner {
	return &StateSigner{
		key: []byte(key),
		now: time.Now,
	}
}

// Issue mints a fresh signed state value.
func (s *StateSigner) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "signing oauth state")
	}
	return signed, nil
}

// Verify checks the signature and expiry of a state value returned by the
// authorization server.
func (s *StateSigner) Verify(state string) error {
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid oauth state")
	}
	return nil
}
