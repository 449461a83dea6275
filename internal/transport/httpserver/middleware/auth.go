package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"tweet-score-service/internal/transport/httpserver/dto"
)

// userIDKey is the fiber Locals key holding the caller's user id.
const userIDKey = "user_id"

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	// JWTSecret signs HS256 tokens. When empty every request runs as DefaultUser.
	JWTSecret   string
	Issuer      string
	DefaultUser string
}

// Auth returns a middleware resolving the caller's user id from an optional
// bearer token. Requests without a token are anonymous; an invalid token is
// rejected with 401.
func Auth(cfg AuthConfig, logger *zap.Logger) fiber.Handler {
	if cfg.JWTSecret == "" {
		return func(c *fiber.Ctx) error {
			c.Locals(userIDKey, cfg.DefaultUser)
			return c.Next()
		}
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(cfg.JWTSecret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return unauthorized(c, "authorization header must be a bearer token")
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			logger.Debug("rejected bearer token", zap.Error(err))
			if errors.Is(err, jwt.ErrTokenExpired) {
				return unauthorized(c, "token expired")
			}
			return unauthorized(c, "invalid token")
		}
		if claims.Subject == "" {
			return unauthorized(c, "token has no subject")
		}

		c.Locals(userIDKey, claims.Subject)

		return c.Next()
	}
}

// UserID returns the caller's user id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  "UNAUTHORIZED",
	})
}
