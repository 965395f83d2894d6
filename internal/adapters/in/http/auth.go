package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const userIDContextKey = "orders.user_id"

var (
	ErrTokenMissing   = errors.New("token was not provided")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrSubjectMissing = errors.New("token has no user id")
)

// Authenticator verifies bearer tokens. The subject claim is the id of the
// requesting user; token issuance and user lookup live elsewhere.
type Authenticator struct {
	secret    []byte
	algorithm string
	now       func() time.Time
}

func NewAuthenticator(secret, algorithm string) *Authenticator {
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	return &Authenticator{
		secret:    []byte(secret),
		algorithm: algorithm,
		now:       time.Now,
	}
}

// Authenticate returns the user id carried by an "Authorization: Bearer" header.
func (a *Authenticator) Authenticate(header string) (string, error) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", ErrTokenMissing
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{a.algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case err != nil:
		return "", ErrTokenInvalid
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrSubjectMissing
	}
	return subject, nil
}

// Middleware rejects requests without a valid token with 401 and stores the
// user id for UserID.
func (a *Authenticator) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if skipper(ctx) {
				return next(ctx)
			}

			userID, err := a.Authenticate(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			ctx.Set(userIDContextKey, userID)
			return next(ctx)
		}
	}
}

// UserID returns the authenticated user id, or "" on unauthenticated routes.
func UserID(ctx echo.Context) string {
	userID, _ := ctx.Get(userIDContextKey).(string)
	return userID
}
