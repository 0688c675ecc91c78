package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ablemap/ablemap/internal/domain"
)

// ProviderJWT is the auth provider name recorded for JWT-backed users.
const ProviderJWT = "jwt"

type Claims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider verifies locally signed HS256 tokens. It is meant for
// development and tests, where no Kakao app is available.
type JWTProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTProvider(secret, issuer string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (p *JWTProvider) Name() string { return ProviderJWT }

func (p *JWTProvider) Verify(_ context.Context, credential string) (domain.Subject, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if claims.Subject == "" {
		return domain.Subject{}, fmt.Errorf("%w: token without subject", domain.ErrAuthentication)
	}

	return domain.Subject{
		Provider:  ProviderJWT,
		ID:        claims.Subject,
		Nickname:  claims.Nickname,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueToken signs a token for subjectID valid for ttl.
func (p *JWTProvider) IssueToken(subjectID, nickname string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject id is required")
	}
	now := p.now()
	claims := Claims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
