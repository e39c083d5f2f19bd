package middleware

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"facilityaudit/internal/auth"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
)

const (
	claimsKey = "claims"
	userKey   = "currentUser"
)

// UserLoader resolves the user behind a token.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// JWT validates the bearer access token and stores its claims on the context.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateTokenOfType(token, auth.TokenTypeAccess)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return reject(http.StatusUnauthorized, "authentication credentials were not provided or are invalid", "UNAUTHORIZED")
		},
	})
}

// LoadUser rejects revoked tokens and inactive users, then stores the caller
// on the context. It must run after JWT.
func LoadUser(users UserLoader, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return reject(http.StatusUnauthorized, "authentication credentials were not provided or are invalid", "UNAUTHORIZED")
			}
			ctx := c.Request().Context()
			if revoked, err := tokens.IsAccessTokenBlacklisted(ctx, claims.ID); err == nil && revoked {
				return reject(http.StatusUnauthorized, "token has been revoked", "TOKEN_REVOKED")
			}
			user, err := users.GetUser(ctx, claims.UserID)
			if err != nil || !user.IsActive {
				return reject(http.StatusUnauthorized, "user is inactive or does not exist", "UNAUTHORIZED")
			}

			c.Set(userKey, user)
			log := logger.FromContext(ctx).With("user_id", user.ID, "role", user.Role)
			c.SetRequest(c.Request().WithContext(logger.ContextWithLogger(ctx, log)))
			return next(c)
		}
	}
}

// RequireRoles lets the request through only when the caller holds one of roles.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil || !user.HasRole(roles...) {
				return reject(http.StatusForbidden, apperrors.ErrForbidden.Error(), "FORBIDDEN")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated caller or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

// Claims returns the validated access token claims or nil.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

func reject(status int, message, code string) *echo.HTTPError {
	return echo.NewHTTPError(status, apperrors.ErrorResponse{Error: message, Code: code})
}
