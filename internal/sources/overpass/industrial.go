package overpass

import (
	"context"
	"fmt"

	"github.com/aerohealth/aerohealth/internal/sources"
)

// MaxIndustrial caps how many industrial sites are reported per query.
const MaxIndustrial = 5

// IndustrialProvider reports airports and industrial areas.
type IndustrialProvider struct {
	client *Client
}

// NewIndustrialProvider creates a provider backed by client.
func NewIndustrialProvider(client *Client) *IndustrialProvider {
	return &IndustrialProvider{client: client}
}

// Name implements sources.Provider.
func (p *IndustrialProvider) Name() string {
	return "overpass-industrial"
}

// IndustrialQuery builds the Overpass QL for aerodromes and industrial land.
func IndustrialQuery(q sources.Query) string {
	b := bbox(q.Region)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["aeroway"="aerodrome"]%s;
  node["industrial"]%s;
  way["landuse"="industrial"]%s;
);
out center;`, b, b, b)
}

// FetchSources implements sources.Provider.
func (p *IndustrialProvider) FetchSources(ctx context.Context, q sources.Query) ([]sources.Source, error) {
	resp, err := p.client.Query(ctx, IndustrialQuery(q))
	if err != nil {
		return nil, fmt.Errorf("fetch industrial areas: %w", err)
	}
	return IndustrialSources(resp.Elements), nil
}

// IndustrialSources maps the first MaxIndustrial elements to sources,
// skipping any without a position.
func IndustrialSources(elements []Element) []sources.Source {
	if len(elements) > MaxIndustrial {
		elements = elements[:MaxIndustrial]
	}

	out := make([]sources.Source, 0, len(elements))
	for i, el := range elements {
		pos, ok := el.Position()
		if !ok {
			continue
		}

		src := sources.Source{
			ID:          fmt.Sprintf("industrial-%d", el.ID),
			Type:        sources.TypeFactory,
			Name:        el.Tag("name"),
			Location:    pos,
			Description: "Industrial area - Manufacturing emissions",
			Severity:    sources.SeverityMedium,
		}

		if el.Tag("aeroway") == "aerodrome" {
			src.Type = sources.TypeAirport
			src.Description = "Airport - Aircraft emissions"
			if src.Name == "" {
				src.Name = fmt.Sprintf("Airport %d", i+1)
			}
		} else if src.Name == "" {
			src.Name = fmt.Sprintf("Industrial Area %d", i+1)
		}

		out = append(out, src)
	}

	return out
}
