package auth0

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://tenant.test/"
	testAudience = "https://tarpaulin/api"
	testKid      = "key-1"
)

func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwks := JWKS{Keys: []JWK{{
		Kid: testKid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}}}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "auth0|user-123",
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func newTestValidator(t *testing.T, key *rsa.PrivateKey) *Validator {
	t.Helper()
	srv := newJWKSServer(t, key)
	t.Cleanup(srv.Close)

	v, err := NewValidator(context.Background(), Config{
		JWKSURL:  srv.URL,
		Issuer:   testIssuer,
		Audience: testAudience,
	})
	require.NoError(t, err)
	require.Equal(t, 1, v.KeyCount())
	return v
}

func TestNewValidator(t *testing.T) {
	t.Run("unreachable JWKS endpoint fails construction", func(t *testing.T) {
		_, err := NewValidator(context.Background(), Config{
			JWKSURL:     "http://127.0.0.1:1/jwks.json",
			Issuer:      testIssuer,
			Audience:    testAudience,
			HTTPTimeout: time.Second,
		})
		assert.ErrorIs(t, err, ErrJWKSFetchFailed)
	})

	t.Run("non-200 JWKS response fails construction", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewValidator(context.Background(), Config{
			JWKSURL:  srv.URL,
			Issuer:   testIssuer,
			Audience: testAudience,
		})
		assert.ErrorIs(t, err, ErrJWKSFetchFailed)
	})
}

func TestValidateToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := newTestValidator(t, key)
	ctx := context.Background()

	t.Run("valid token yields subject", func(t *testing.T) {
		token := signToken(t, key, testKid, validClaims())

		claims, err := v.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "auth0|user-123", claims.Subject)
	})

	t.Run("unknown kid is rejected", func(t *testing.T) {
		token := signToken(t, key, "rotated-away", validClaims())

		_, err := v.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience is rejected", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"https://other/api"}

		_, err := v.ValidateToken(ctx, signToken(t, key, testKid, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.test/"

		_, err := v.ValidateToken(ctx, signToken(t, key, testKid, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := v.ValidateToken(ctx, signToken(t, key, testKid, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing sub claim is rejected", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""

		_, err := v.ValidateToken(ctx, signToken(t, key, testKid, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed by a different key is rejected", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, signToken(t, otherKey, testKid, validClaims()))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HMAC token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		token.Header["kid"] = testKid
		signed, err := token.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = v.ValidateToken(ctx, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := v.ValidateToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
