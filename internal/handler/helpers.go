package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/UtonulVTebe/studyhub-api/internal/middleware"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	result := uint(parsed)
	return &result, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// actorFromContext rebuilds the authenticated user from the token claims the
// auth middleware placed on the request. Role claims arrive lowercased and
// are mapped back onto the canonical role names.
func actorFromContext(c *fiber.Ctx) models.User {
	return models.User{
		ID:   userIDFromContext(c),
		Role: canonicalRole(userRoleFromContext(c)),
	}
}

func canonicalRole(claim string) string {
	switch strings.ToLower(strings.TrimSpace(claim)) {
	case "student":
		return models.RoleStudent
	case "teacher":
		return models.RoleTeacher
	case "admin":
		return models.RoleAdmin
	}
	return claim
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
