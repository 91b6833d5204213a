package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Egidiu/cadastral-cli/internal/model"
	"github.com/Egidiu/cadastral-cli/pkg/ancpi"
)

// stubTransformer divides raw coordinates by 1e4 instead of calling
// PROJ, keeping pipeline tests independent of libproj.
type stubTransformer struct{}

func (stubTransformer) Transform(rings [][][]float64) ([]model.Vertex, *model.Vertex, error) {
	var vertices []model.Vertex
	for _, ring := range rings {
		for _, p := range ring {
			vertices = append(vertices, model.Vertex{Lat: p[1] / 1e4, Lon: p[0] / 1e4})
		}
	}
	if len(vertices) == 0 {
		return nil, nil, nil
	}
	var sumLat, sumLon float64
	for _, v := range vertices {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(vertices))
	return vertices, &model.Vertex{Lat: sumLat / n, Lon: sumLon / n}, nil
}

type stubFetcher struct {
	rings map[string][][][]float64
	err   map[string]error
	calls []string
}

func (f *stubFetcher) FetchRings(_ context.Context, url string) ([][][]float64, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.err[url]; ok {
		return nil, err
	}
	return f.rings[url], nil
}

func testRequest(n int64, url string) model.LookupRequest {
	return model.LookupRequest{
		County:          "Arges",
		CountyID:        36,
		UAT:             "Ungheni",
		UATID:           19560,
		CadastralNumber: n,
		QueryURL:        url,
	}
}

func TestProcess_SequentialInInputOrder(t *testing.T) {
	fetcher := &stubFetcher{rings: map[string][][][]float64{
		"u1": {{{500000, 300000}, {500010, 300000}}},
		"u2": {{{600000, 400000}}},
	}}
	runner := NewRunner(fetcher, stubTransformer{}, time.Millisecond)

	results, err := runner.Process(context.Background(), []model.LookupRequest{
		testRequest(1, "u1"),
		testRequest(2, "u2"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{"u1", "u2"}, fetcher.calls)
	assert.Equal(t, int64(1), results[0].Request.CadastralNumber)
	assert.Len(t, results[0].Vertices, 2)
	assert.Len(t, results[1].Vertices, 1)
}

func TestProcess_FailedFetchDegradesSingleRecord(t *testing.T) {
	// Real client against a mocked endpoint: first record 404s, second
	// succeeds. The batch continues and only the bad record is empty.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "RO.36.19560.1") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"features":[{"geometry":{"rings":[[[500000,300000],[500010,300010]]]}}]}`))
	}))
	defer srv.Close()

	client := ancpi.NewClient(ancpi.ClientOptions{Timeout: 5 * time.Second})
	runner := NewRunner(client, stubTransformer{}, time.Millisecond)

	requests := []model.LookupRequest{
		testRequest(1, ancpi.QueryURL(srv.URL, 36, 19560, 1)),
		testRequest(2, ancpi.QueryURL(srv.URL, 36, 19560, 2)),
	}

	results, err := runner.Process(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].HasData())
	assert.Contains(t, results[0].Err, "404")
	assert.True(t, results[1].HasData())

	rows := Flatten(results)
	assert.Len(t, rows, 2, "row count unaffected beyond the bad record's zero contribution")
}

func TestProcess_EmptyGeometryIsNoData(t *testing.T) {
	fetcher := &stubFetcher{rings: map[string][][][]float64{"u1": {{}, {}}}}
	runner := NewRunner(fetcher, stubTransformer{}, time.Millisecond)

	results, err := runner.Process(context.Background(), []model.LookupRequest{testRequest(1, "u1")})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].HasData())
	assert.Equal(t, "empty geometry", results[0].Err)
}

func TestProcess_DedupeSpansBatch(t *testing.T) {
	// u1 and u2 share the vertex (500010, 300010).
	fetcher := &stubFetcher{rings: map[string][][][]float64{
		"u1": {{{500000, 300000}, {500010, 300010}}},
		"u2": {{{500010, 300010}, {500020, 300020}}},
	}}
	runner := NewRunner(fetcher, stubTransformer{}, time.Millisecond)

	results, err := runner.Process(context.Background(), []model.LookupRequest{
		testRequest(1, "u1"),
		testRequest(2, "u2"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Len(t, results[0].Vertices, 2)
	assert.Len(t, results[1].Vertices, 1, "shared vertex belongs to the first record")

	// Both records keep their own centroid, computed before dedupe.
	require.True(t, results[0].HasData())
	require.True(t, results[1].HasData())
	assert.InDelta(t, (30.0010+30.0020)/2, results[1].Central.Lat, 1e-9)
}

func TestProcess_CancelledContextAborts(t *testing.T) {
	fetcher := &stubFetcher{}
	runner := NewRunner(fetcher, stubTransformer{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First limiter slot is free, so use two requests to hit the wait.
	results, err := runner.Process(ctx, []model.LookupRequest{
		testRequest(1, "u1"),
		testRequest(2, "u2"),
	})
	require.Error(t, err)
	assert.LessOrEqual(t, len(results), 1)
}
