// Package middleware provides HTTP middleware for the fiber application.
package middleware

import (
	"strings"

	"github.com/Mafunamiii/zoopwallet/internal/config"
	"github.com/Mafunamiii/zoopwallet/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the fiber locals key the validated claims are stored under.
const ClaimsKey = "claims"

// AuthMiddleware validates JWT bearer tokens and stores the user claims in
// the request context. Token issuance lives outside this service.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(config.GetEnv("JWT_SECRET", "your-secret-key")),
	}
}

// Handler checks for a Bearer token with a valid signature and unexpired
// claims.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	c.Locals(ClaimsKey, claims)
	return c.Next()
}
