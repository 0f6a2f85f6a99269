package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/okravets/openblog/backend/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// parsePagination reads page and limit query params. Missing params
// fall back to defaults; anything that is not a positive integer is a
// caller error.
func parsePagination(c echo.Context) (page, limit int, err error) {
	page = defaultPage
	if raw := c.QueryParam("page"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		page = v
	}

	limit = defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = v
	}
	return page, limit, nil
}

// allowed sort fields for post listings
var sortFields = map[string]bool{
	"createdAt":    true,
	"updatedAt":    true,
	"publishedAt":  true,
	"title":        true,
	"views":        true,
	"rating.likes": true,
}

// parseSort reads sortBy and sortOrder query params, defaulting to
// publishedAt descending.
func parseSort(c echo.Context) (sortBy string, sortOrder int, err error) {
	sortBy = c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	if !sortFields[sortBy] {
		return "", 0, echo.NewHTTPError(http.StatusBadRequest, "unsupported sortBy field: "+sortBy)
	}

	sortOrder = -1
	if raw := c.QueryParam("sortOrder"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || (v != 1 && v != -1) {
			return "", 0, echo.NewHTTPError(http.StatusBadRequest, "sortOrder must be 1 or -1")
		}
		sortOrder = v
	}
	return sortBy, sortOrder, nil
}

// parseTags splits a comma-separated tag list, trimming whitespace
// and dropping empty entries.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(raw, ","), func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})
}

// repoError maps repository failures onto the HTTP error taxonomy
func repoError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
