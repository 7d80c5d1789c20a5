package quakes

import (
	"context"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
)

// Load fetches rawURL and decodes the body. Failures of either stage yield an
// empty slice; callers cannot tell "no earthquakes" from "request failed".
func Load(ctx context.Context, client httpclient.Client, rawURL string) []domain.Earthquake {
	return Decode(Fetch(ctx, client, rawURL))
}

// Query is Load with the failure reason kept. Headers are sent as-is.
func Query(ctx context.Context, client httpclient.Client, rawURL string, headers map[string]string) ([]domain.Earthquake, error) {
	body, err := fetchBody(ctx, client, rawURL, headers)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}
