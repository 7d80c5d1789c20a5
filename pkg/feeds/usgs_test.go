package feeds

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
	"github.com/samvad-hq/quake-harvester/pkg/quakes"
)

const sampleGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"mag":4.7,"place":"80km W of Abepura, Indonesia","time":1401407000000,"url":"https://earthquake.usgs.gov/earthquakes/eventpage/us1"},"id":"us1"},
 {"type":"Feature","id":"broken"}
]}`

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

type mockHTTPClient struct {
	t         *testing.T
	expect    map[string]string
	expectURL string
	status    int
	body      string
	err       error
}

func (m mockHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	if m.expectURL != "" && url != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, url)
	}
	for key, want := range m.expect {
		if got := headers[key]; got != want {
			m.t.Fatalf("expected header %s=%q, got %q", key, want, got)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func TestUSGSFetcherFetchSuccess(t *testing.T) {
	client := mockHTTPClient{
		t:         t,
		expectURL: "https://earthquake.usgs.gov/fdsnws/event/1/query?format=geojson&eventtype=earthquake&orderby=time&minmag=4.5&limit=5",
		expect:    map[string]string{"User-Agent": "UA", "Accept-Language": "en"},
		body:      sampleGeoJSON,
	}

	fetcher := NewUSGSFetcher(client)
	quakeList, err := fetcher.Fetch(context.Background(), Feed{
		ID:           "usgs",
		Type:         TypeUSGSGeoJSON,
		MinMagnitude: 4.5,
		Limit:        5,
		Config: map[string]any{
			ConfigUserAgentKey:      "UA",
			ConfigAcceptLanguageKey: "en",
		},
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(quakeList) != 1 {
		t.Fatalf("expected 1 earthquake, got %d", len(quakeList))
	}
	if quakeList[0].Magnitude != 4.7 || !strings.HasPrefix(quakeList[0].Place, "80km W of") {
		t.Fatalf("unexpected earthquake %+v", quakeList[0])
	}
}

func TestUSGSFetcherRejectsUnknownType(t *testing.T) {
	fetcher := NewUSGSFetcher(mockHTTPClient{t: t})
	if _, err := fetcher.Fetch(context.Background(), Feed{ID: "x", Type: "rss"}); err == nil {
		t.Fatal("expected error for mismatched feed type")
	}
}

func TestUSGSFetcherSurfacesFailureKind(t *testing.T) {
	fetcher := NewUSGSFetcher(mockHTTPClient{t: t, err: errors.New("dial tcp: timeout")})
	_, err := fetcher.Fetch(context.Background(), Feed{ID: "usgs", Type: TypeUSGSGeoJSON})
	if !errors.Is(err, quakes.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}

	fetcher = NewUSGSFetcher(mockHTTPClient{t: t, body: "<html>"})
	_, err = fetcher.Fetch(context.Background(), Feed{ID: "usgs", Type: TypeUSGSGeoJSON})
	if !errors.Is(err, quakes.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDefaultFetcherRegistryResolvesByType(t *testing.T) {
	reg := DefaultFetcherRegistry(mockHTTPClient{t: t})
	f, err := reg.FetcherFor(Feed{ID: "anything", Type: "USGS_GeoJSON"})
	if err != nil {
		t.Fatalf("FetcherFor: %v", err)
	}
	if f.ID() != TypeUSGSGeoJSON {
		t.Fatalf("unexpected fetcher %s", f.ID())
	}

	if _, err := reg.FetcherFor(Feed{ID: "x", Type: "unknown"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := reg.FetcherFor(Feed{Type: TypeUSGSGeoJSON}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := reg.FetcherFor(Feed{ID: "x", Type: "  usgs_geojson "}); err != nil {
		t.Fatalf("expected padded type to resolve: %v", err)
	}
}
