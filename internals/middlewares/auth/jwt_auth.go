package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT memverifikasi Bearer token dan mengisi locals:
// user_id, user_name, roles, jwt_claims.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals("jwt_claims", claims)

		if v, ok := claims["sub"].(string); ok && v != "" {
			c.Locals("user_id", v)
		} else if v, ok := claims["user_id"].(string); ok && v != "" {
			c.Locals("user_id", v)
		}
		if v, ok := claims["user_name"].(string); ok {
			c.Locals("user_name", v)
		}
		if v, ok := claims["school_id"].(string); ok && v != "" {
			c.Locals("school_id", v)
		}
		if v, ok := claims["roles"]; ok {
			c.Locals("roles", v)
		}

		return c.Next()
	}
}
