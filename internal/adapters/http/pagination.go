package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PaginatedResponse wraps list results with offset pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// SetLinkHeaders emits RFC 8288 prev/next Link headers for the current page.
// Pages at either edge of the collection simply omit the link that would
// point past it; first/last can be derived from the pagination block.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	var links []string

	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="prev"`, c.Path(), prev, p.Limit))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="next"`, c.Path(), p.Offset+p.Limit, p.Limit))
	}

	if len(links) > 0 {
		c.Set("Link", strings.Join(links, ", "))
	}
}
