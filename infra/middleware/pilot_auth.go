package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"mailpilot/core/port/out"
	"mailpilot/pkg/apperr"
	"mailpilot/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionKey = "session"

// Session is the authenticated caller, built from a verified access token.
type Session struct {
	UserID    uuid.UUID
	Email     string
	SessionID string
	TokenID   string
	ExpiresAt time.Time
	Token     string
}

// RevocationID is the id stored in the blacklist on logout.
func (s *Session) RevocationID() string {
	if s.TokenID != "" {
		return s.TokenID
	}
	return s.SessionID
}

// GetSession returns the session stored by JWTAuth.
func GetSession(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(sessionKey).(*Session)
	return s, ok && s != nil
}

// SetSession stores s on the request. Used by JWTAuth and handler tests.
func SetSession(c *fiber.Ctx, s *Session) {
	c.Locals(sessionKey, s)
	c.Locals("user_id", s.UserID)
	c.SetUserContext(context.WithValue(c.UserContext(), logger.UserIDKey, s.UserID.String()))
}

// JWTAuth verifies HS256 Supabase access tokens. blacklist may be nil.
func JWTAuth(secret string, blacklist out.TokenBlacklist) fiber.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(time.Minute),
	)

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return apperr.Unauthorized("missing authorization")
		}
		if secret == "" {
			return apperr.Internal("JWT secret not configured")
		}

		claims := jwt.MapClaims{}
		_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return apperr.New(apperr.CodeTokenExpired, "token expired", fiber.StatusUnauthorized)
			}
			logger.WithContext(c.UserContext()).WithError(err).Warn("JWT validation failed")
			return apperr.InvalidToken("invalid token")
		}

		session, err := sessionFromClaims(claims)
		if err != nil {
			return err
		}
		session.Token = tokenString

		if blacklist != nil {
			if id := session.RevocationID(); id != "" {
				revoked, err := blacklist.IsRevoked(c.UserContext(), id)
				if err != nil {
					logger.WithContext(c.UserContext()).WithError(err).Warn("token blacklist lookup failed")
				}
				if revoked {
					return apperr.New("TOKEN_REVOKED", "token has been revoked", fiber.StatusUnauthorized)
				}
			}
		}

		SetSession(c, session)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func sessionFromClaims(claims jwt.MapClaims) (*Session, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, apperr.InvalidToken("missing user id in token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperr.InvalidToken("invalid user id format")
	}

	session := &Session{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	if sid, ok := claims["session_id"].(string); ok {
		session.SessionID = sid
	}
	if jti, ok := claims["jti"].(string); ok {
		session.TokenID = jti
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, apperr.InvalidToken("missing token expiry")
	}
	session.ExpiresAt = exp.Time
	return session, nil
}
