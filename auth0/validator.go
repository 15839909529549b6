package auth0

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token fails any validation step
	ErrInvalidToken = errors.New("invalid token")

	// ErrJWKSFetchFailed is returned when JWKS fetching fails
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")
)

// JWKS represents the JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Claims represents the claims carried by a tenant-issued token
type Claims struct {
	jwt.RegisteredClaims
}

// Config holds configuration for the Validator
type Config struct {
	// JWKSURL is the tenant's published signing key set
	JWKSURL string
	// Issuer is the expected iss claim, https://{domain}/
	Issuer string
	// Audience is the expected aud claim
	Audience string
	// HTTPTimeout bounds the startup JWKS fetch
	HTTPTimeout time.Duration
}

// Validator verifies bearer tokens against the identity provider's
// signing keys. The key set is fetched once at construction and held
// read-only for the life of the process; key rotation at the provider
// requires a restart.
type Validator struct {
	issuer   string
	audience string
	keys     map[string]*rsa.PublicKey
}

// NewValidator fetches the JWKS and builds a validator over it
func NewValidator(ctx context.Context, cfg Config) (*Validator, error) {
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	jwks, err := fetchJWKS(ctx, cfg.JWKSURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Kty != "RSA" {
			continue
		}
		publicKey, err := jwkToRSAPublicKey(jwk)
		if err != nil {
			return nil, fmt.Errorf("failed to convert JWK %s: %w", jwk.Kid, err)
		}
		keys[jwk.Kid] = publicKey
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: key set contains no RSA keys", ErrJWKSFetchFailed)
	}

	return &Validator{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		keys:     keys,
	}, nil
}

// ValidateToken validates a bearer token and returns its claims.
// Every failure mode collapses to ErrInvalidToken; callers treat them
// all as unauthorized.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}

		publicKey, ok := v.keys[kid]
		if !ok {
			return nil, fmt.Errorf("no signing key for kid %s", kid)
		}

		return publicKey, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	return claims, nil
}

// KeyCount reports how many signing keys were loaded at startup
func (v *Validator) KeyCount() int {
	return len(v.keys)
}

// fetchJWKS fetches the key set from the identity provider
func fetchJWKS(ctx context.Context, url string, timeout time.Duration) (*JWKS, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	return &jwks, nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}
