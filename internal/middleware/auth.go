package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/soaringjerry/Candor/internal/models"
)

type authCtxKey int

const authKey authCtxKey = 7

// Claims is the payload the backend signs into the refresh token cookie.
type Claims struct {
	Role string `json:"role"`
	ID   string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier reads the role out of the backend-issued token cookie.
type TokenVerifier struct {
	secret []byte
	cookie string
	now    func() time.Time
}

func NewTokenVerifier(secret, cookie string) *TokenVerifier {
	if cookie == "" {
		cookie = "refreshToken"
	}
	return &TokenVerifier{secret: []byte(secret), cookie: cookie, now: time.Now}
}

func (v *TokenVerifier) CookieName() string { return v.cookie }

// SignToken mints a token the way the backend does. Only tests need it.
func (v *TokenVerifier) SignToken(role models.Role, id string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{Role: string(role), ID: id, RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *TokenVerifier) parseToken(tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(v.now))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Verify returns the claims of a valid token carrying a known role.
func (v *TokenVerifier) Verify(tok string) (*Claims, error) {
	c, err := v.parseToken(tok)
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseRole(c.Role); err != nil {
		return nil, err
	}
	return c, nil
}

// RoleFromRequest returns nil for a missing, malformed, expired or badly
// signed token. The caller treats that as anonymous.
func (v *TokenVerifier) RoleFromRequest(r *http.Request) *models.Role {
	c := v.ClaimsFromRequest(r)
	if c == nil {
		return nil
	}
	role := models.Role(c.Role)
	return &role
}

func (v *TokenVerifier) ClaimsFromRequest(r *http.Request) *Claims {
	ck, err := r.Cookie(v.cookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c, err := v.Verify(ck.Value)
	if err != nil {
		return nil
	}
	return c
}

// WithAuth attaches verified claims to the context when the cookie is valid.
func (v *TokenVerifier) WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := v.ClaimsFromRequest(r); c != nil {
			ctx := context.WithValue(r.Context(), authKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(authKey).(*Claims)
	return c, ok
}
