package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// adminMiddleware only lets active admin accounts through. It must run after the JWT middleware.
func adminMiddleware(auth *authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := auth.contextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsAdmin {
				return errHttpForbidden
			}
			acc, err := auth.contextAccount(ctx, claims)
			if err != nil {
				return err
			}
			if !acc.IsActive {
				return errAccountDeactivated
			}
			return next(ctx)
		}
	}
}
