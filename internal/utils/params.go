package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// GetIDParam parses a positive numeric path parameter. label is used in the
// error message, e.g. "Project".
func GetIDParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(label + " ID not found")
	}

	return parseID(raw, label)
}

// GetIDQuery parses a required positive numeric query parameter.
func GetIDQuery(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Query(name)

	if raw == "" {
		return 0, errors.New(label + " ID is required")
	}

	return parseID(raw, label)
}

func parseID(raw, label string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}

// GetPagination reads skip/limit query parameters with defaults of 0 and 100.
func GetPagination(ctx *gin.Context) (int, int, error) {
	skip, err := intQuery(ctx, "skip", 0)
	if err != nil || skip < 0 {
		return 0, 0, errors.New("Invalid skip")
	}

	limit, err := intQuery(ctx, "limit", DefaultLimit)
	if err != nil || limit <= 0 {
		return 0, 0, errors.New("Invalid limit")
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	return skip, limit, nil
}

func intQuery(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
