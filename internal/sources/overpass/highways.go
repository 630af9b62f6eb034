package overpass

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aerohealth/aerohealth/internal/sources"
)

// MaxHighways caps how many road segments are reported per query.
const MaxHighways = 10

// HighwayProvider reports major roads as pollution sources.
type HighwayProvider struct {
	client *Client
}

// NewHighwayProvider creates a provider backed by client.
func NewHighwayProvider(client *Client) *HighwayProvider {
	return &HighwayProvider{client: client}
}

// Name implements sources.Provider.
func (p *HighwayProvider) Name() string {
	return "overpass-highways"
}

// HighwayQuery builds the Overpass QL for major roads inside q.Region.
func HighwayQuery(q sources.Query) string {
	return fmt.Sprintf(`[out:json][timeout:25];
(
  way["highway"~"motorway|trunk|primary"]%s;
);
out center;`, bbox(q.Region))
}

// FetchSources implements sources.Provider.
func (p *HighwayProvider) FetchSources(ctx context.Context, q sources.Query) ([]sources.Source, error) {
	resp, err := p.client.Query(ctx, HighwayQuery(q))
	if err != nil {
		return nil, fmt.Errorf("fetch highways: %w", err)
	}
	return HighwaySources(resp.Elements), nil
}

// HighwaySources maps the first MaxHighways elements to sources, skipping
// any without a center.
func HighwaySources(elements []Element) []sources.Source {
	if len(elements) > MaxHighways {
		elements = elements[:MaxHighways]
	}

	out := make([]sources.Source, 0, len(elements))
	for i, el := range elements {
		if el.Center == nil {
			continue
		}

		class := el.Tag("highway")
		severity := sources.SeverityMedium
		if class == "motorway" {
			severity = sources.SeverityHigh
		}

		name := el.Tag("name")
		if name == "" {
			ref := el.Tag("ref")
			if ref == "" {
				ref = strconv.Itoa(i + 1)
			}
			name = "Highway " + ref
		}

		if class == "" {
			class = "Road"
		}

		out = append(out, sources.Source{
			ID:          fmt.Sprintf("highway-%d", el.ID),
			Type:        sources.TypeHighway,
			Name:        name,
			Location:    geoPoint(*el.Center),
			Description: class + " - High traffic area",
			Severity:    severity,
		})
	}

	return out
}
