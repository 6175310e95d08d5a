package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Ambil user_id dari c.Locals("user_id")
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

// Ambil school_id (tenant) dari c.Locals("school_id")
func GetSchoolIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("school_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token tidak memuat school_id")
	}
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Token tidak memuat school_id")
		}
		return t, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil || id == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "School ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "School ID pada token tidak valid")
	}
}

// GetRolesFromToken membaca klaim roles dari locals (diisi middleware AuthJWT).
func GetRolesFromToken(c *fiber.Ctx) []string {
	var out []string
	switch v := c.Locals("roles").(type) {
	case []string:
		return v
	case []interface{}:
		for _, r := range v {
			if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	if claims, ok := c.Locals("jwt_claims").(jwt.MapClaims); ok {
		if rs, ok := claims["roles"].([]interface{}); ok {
			for _, r := range rs {
				if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// HasRole: cek apakah salah satu role user ada di daftar allowed.
func HasRole(c *fiber.Ctx, allowed []string) bool {
	for _, have := range GetRolesFromToken(c) {
		lh := strings.ToLower(strings.TrimSpace(have))
		for _, want := range allowed {
			if lh == strings.ToLower(want) {
				return true
			}
		}
	}
	return false
}
