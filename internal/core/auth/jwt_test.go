package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("secret"), Issuer: "go-gin-shop", TTL: 24 * time.Hour}
}

func TestIssueParseRoundTrip(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("u-1", "admin")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UID)
	assert.Equal(t, "admin", c.Role)
	assert.Equal(t, "go-gin-shop", c.Issuer)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), c.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsExpired(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("u-1", "user")
	require.NoError(t, err)

	j.Now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecretAndIssuer(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("u-1", "user")
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("other")
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other = newJWTer()
	other.Issuer = "someone-else"
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlg(t *testing.T) {
	j := newJWTer()
	claims := Claims{UID: "u-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: j.Issuer}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(j.Secret)
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := newJWTer().Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
