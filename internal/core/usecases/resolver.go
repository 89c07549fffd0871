package usecases

import (
	"fmt"
	"math"
	"strings"

	"github.com/rfarias/geocapture/internal/core/domain"
	"github.com/rfarias/geocapture/internal/core/ports"
	"github.com/rfarias/geocapture/internal/pkg/geospatial"
)

// ClientResolver attributes a capture to a known client using the
// tag-priority-then-geofence hierarchy.
type ClientResolver struct {
	registry ports.SiteRegistry
	keyword  string
}

// NewClientResolver creates a resolver over the given site table. keyword is
// the hashtag site keyword ("fazenda" by default).
func NewClientResolver(registry ports.SiteRegistry, keyword string) *ClientResolver {
	return &ClientResolver{registry: registry, keyword: keyword}
}

// Resolve decides the owning client. Evaluation order:
//
//  1. Exactly one tag: the tag is authoritative. The candidate name is the
//     site keyword plus the captured word; if it is not in the table the
//     whole submission is invalid (domain.ErrUnknownClientTag) — there is no
//     silent fallback to geofencing.
//  2. Zero or multiple tags: tags are ignored and the coordinate is matched
//     against every site's geofence. When the point sits inside more than one
//     radius the nearest center wins, registry order breaking exact ties.
//  3. No containing geofence (or no coordinate): empty name, nil error —
//     unresolved is a terminal state for resolution, not a failure.
func (r *ClientResolver) Resolve(tags []string, coord *domain.Coordinate) (string, error) {
	if len(tags) == 1 {
		name := strings.ToLower(r.keyword + " " + tags[0])
		if site, ok := r.registry.FindByName(name); ok {
			return site.Name, nil
		}
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownClientTag, name)
	}

	if coord == nil {
		return "", nil
	}

	best := ""
	bestDist := math.Inf(1)
	for _, site := range r.registry.Sites() {
		d := geospatial.Haversine(coord.Lat, coord.Lon, site.Center.Lat, site.Center.Lon)
		if d <= site.RadiusMeters && d < bestDist {
			best = site.Name
			bestDist = d
		}
	}
	return best, nil
}
