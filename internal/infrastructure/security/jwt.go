package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contacthub/contacthub/internal/domain"
)

// JWTCodec signs and verifies all three token kinds with a single HS256
// symmetric key. The kinds differ only in TTL and the scope claim.
type JWTCodec struct {
	secret []byte
	issuer string
}

func NewJWTCodec(secret string, issuer string) *JWTCodec {
	return &JWTCodec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type purposeClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Issue signs a token for subject (the user's email) with the given
// purpose and lifetime.
func (c *JWTCodec) Issue(subject string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := purposeClaims{
		Scope: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry, checks the scope claim against
// expected, and returns the subject. Expiry, bad signature and scope
// mismatch surface as distinct domain errors, all auth-kind.
func (c *JWTCodec) Decode(token string, expected domain.TokenPurpose) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &purposeClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired()
		}
		return "", domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*purposeClaims)
	if !ok || !parsed.Valid {
		return "", domain.ErrTokenInvalid()
	}

	if claims.Scope != string(expected) {
		return "", domain.ErrTokenScopeInvalid()
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid()
	}

	return claims.Subject, nil
}
