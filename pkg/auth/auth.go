package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName holds the signed viewer token when no header is sent.
const DefaultCookieName = "studio_token"

var (
	ErrMissingToken = errors.New("auth: token not provided")
	ErrInvalidToken = errors.New("auth: invalid token")
	errNoSecret     = errors.New("auth: signing secret is required")
)

// Identity is the viewer carried by a token.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Locale string
}

// Claims embeds the registered JWT claims with the studio identity.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	Locale string `json:"locale,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims back into an Identity.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID: c.Subject,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
		Locale: c.Locale,
	}
}

// Signer issues and validates HS256 tokens.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a signer. A zero ttl defaults to 24h.
func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errNoSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for id.
func (s *Signer) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", fmt.Errorf("auth: user id is required")
	}
	issuedAt := s.now()
	claims := &Claims{
		Name:   id.Name,
		Email:  id.Email,
		Role:   id.Role,
		Locale: id.Locale,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFrom picks the bearer token from an Authorization header value,
// falling back to the cookie value.
func TokenFrom(authorization, cookie string) string {
	if authorization != "" {
		scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
		if found && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(cookie)
}

// FromRequest extracts and validates the viewer token of r.
func (s *Signer) FromRequest(r *http.Request, cookieName string) (*Claims, error) {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	cookie := ""
	if c, err := r.Cookie(cookieName); err == nil {
		cookie = c.Value
	}
	return s.Parse(TokenFrom(r.Header.Get("Authorization"), cookie))
}
