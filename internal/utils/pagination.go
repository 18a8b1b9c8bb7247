package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds pagination parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads page and limit query params with sane defaults.
func ParsePagination(c *fiber.Ctx) Pagination {
	page := parseInt(c.Query("page", "1"), 1)
	limit := parseInt(c.Query("limit", "20"), 20)
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParseSort reads the sort query param, allowing only whitelisted columns,
// and returns an ORDER BY clause.
func ParseSort(c *fiber.Ctx, allowed map[string]bool, fallback string) string {
	column := c.Query("sort", "")
	if !allowed[column] {
		return fallback
	}
	if c.Query("dir", "desc") == "asc" {
		return column + " asc"
	}
	return column + " desc"
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}

