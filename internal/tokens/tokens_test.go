package tokens

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T, secret string, ttl time.Duration) *Issuer {
	t.Helper()
	iss, err := NewIssuer(secret, ttl)
	require.NoError(t, err)
	return iss
}

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	iss := newIssuer(t, "test-secret-32-bytes-should-be-long-enough", 2*time.Minute)

	tokenStr, err := iss.GenerateAccessToken("2vxsx-fae", "Alice")
	require.NoError(t, err)

	claims, err := iss.Parse(tokenStr)
	require.NoError(t, err)
	require.Equal(t, "2vxsx-fae", claims.Subject)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, 2*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestNewIssuerDefaults(t *testing.T) {
	_, err := NewIssuer("", time.Minute)
	require.Error(t, err)

	iss := newIssuer(t, "x", 0)
	require.Equal(t, DefaultTTL, iss.TTL())
}

func TestParse_Expired(t *testing.T) {
	iss := newIssuer(t, "another-secret-32-bytes-longgggg", time.Second)
	now := time.Now()
	iss.now = func() time.Time { return now }
	tokenStr, err := iss.GenerateAccessToken("p", "")
	require.NoError(t, err)

	iss.now = func() time.Time { return now.Add(2 * time.Second) }
	_, err = iss.Parse(tokenStr)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_WrongSecretFails(t *testing.T) {
	tokenStr, err := newIssuer(t, "secret-one-32-bytes-xxxxxxxxxxxxxxxx", time.Minute).GenerateAccessToken("u3", "")
	require.NoError(t, err)
	_, err = newIssuer(t, "different-secret-xxxxxxxxxxxxxxxx", time.Minute).Parse(tokenStr)
	require.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := newIssuer(t, "x", time.Minute).Parse("not.a.jwt")
	require.Error(t, err)
}

// Rejected when alg=none (unsigned token)
func TestParse_AlgNoneRejected(t *testing.T) {
	headerEnc := new(jwt.Token).EncodeSegment([]byte(`{"alg":"none"}`))
	payloadEnc := new(jwt.Token).EncodeSegment([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err := newIssuer(t, "x", time.Minute).Parse(headerEnc + "." + payloadEnc + ".")
	require.Error(t, err)
}

// Tampering with payload must fail signature verification
func TestParse_TamperedPayload(t *testing.T) {
	iss := newIssuer(t, "tamper-test-secret-32-bytes-xxxxxxx", 5*time.Minute)
	tokenStr, err := iss.GenerateAccessToken("user-t", "")
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	parts[1] = new(jwt.Token).EncodeSegment([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	_, err = iss.Parse(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestVerifyExposesSubjectClaim(t *testing.T) {
	iss := newIssuer(t, "verify-secret", time.Minute)
	tokenStr, err := iss.GenerateAccessToken("ryjl3-tyaaa-aaaaa-aaaba-cai", "")
	require.NoError(t, err)

	tok, err := iss.Verify(context.Background(), tokenStr)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "ryjl3-tyaaa-aaaaa-aaaba-cai", claims["sub"])
}
