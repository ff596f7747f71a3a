package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/aequitas/anonymizer"
)

type fakeService struct {
	fitFn       func(ctx context.Context, requested int) (*anonymizer.FitResult, error)
	nameStatsFn func(ctx context.Context, name string) (*anonymizer.NameStats, error)
	statsFn     func(ctx context.Context, filters map[string]string) (*anonymizer.QueryStats, error)
	clustersFn  func(ctx context.Context) ([]anonymizer.ClusterInfo, error)
	clusterFn   func(ctx context.Context, id int) (*anonymizer.ClusterDetail, error)
	ready       bool
}

func (f *fakeService) Fit(ctx context.Context, requested int) (*anonymizer.FitResult, error) {
	return f.fitFn(ctx, requested)
}

func (f *fakeService) NameStats(ctx context.Context, name string) (*anonymizer.NameStats, error) {
	return f.nameStatsFn(ctx, name)
}

func (f *fakeService) Stats(ctx context.Context, filters map[string]string) (*anonymizer.QueryStats, error) {
	return f.statsFn(ctx, filters)
}

func (f *fakeService) Clusters(ctx context.Context) ([]anonymizer.ClusterInfo, error) {
	return f.clustersFn(ctx)
}

func (f *fakeService) Cluster(ctx context.Context, id int) (*anonymizer.ClusterDetail, error) {
	return f.clusterFn(ctx, id)
}

func (f *fakeService) Ready() bool {
	return f.ready
}

func newTestRouter(svc Service) http.Handler {
	return NewRouter(RouterConfig{
		Service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestFitEndpoint(t *testing.T) {
	var gotRequested int
	svc := &fakeService{
		fitFn: func(_ context.Context, requested int) (*anonymizer.FitResult, error) {
			gotRequested = requested
			return &anonymizer.FitResult{NumRecords: 100, NumClusters: 10, KAnonymity: 10, MaxResults: 4000}, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/fit", strings.NewReader(`{"n_clusters": 7}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotRequested)

	var result anonymizer.FitResult
	decodeBody(t, rec, &result)
	assert.Equal(t, 100, result.NumRecords)
	assert.Equal(t, 10, result.NumClusters)
}

func TestFitEndpointEmptyBody(t *testing.T) {
	var gotRequested int
	svc := &fakeService{
		fitFn: func(_ context.Context, requested int) (*anonymizer.FitResult, error) {
			gotRequested = requested
			return &anonymizer.FitResult{}, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/fit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, gotRequested)
}

func TestFitEndpointMalformedBody(t *testing.T) {
	svc := &fakeService{
		fitFn: func(context.Context, int) (*anonymizer.FitResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/fit", strings.NewReader(`{"n_clusters": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNameStatsEndpoint(t *testing.T) {
	svc := &fakeService{
		nameStatsFn: func(_ context.Context, name string) (*anonymizer.NameStats, error) {
			return &anonymizer.NameStats{Name: name, Count: 12, Anonymized: true, Message: "There are 12 people."}, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/stats/name/Ana", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var stats anonymizer.NameStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, "Ana", stats.Name)
	assert.Equal(t, 12, stats.Count)
	assert.True(t, stats.Anonymized)
}

func TestStatsEndpointForwardsKnownParams(t *testing.T) {
	var gotFilters map[string]string
	svc := &fakeService{
		statsFn: func(_ context.Context, filters map[string]string) (*anonymizer.QueryStats, error) {
			gotFilters = filters
			return &anonymizer.QueryStats{Filters: filters, Anonymized: true}, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/stats?sex=F&city=Curitiba&shoe_size=42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"sex": "F", "city": "Curitiba"}, gotFilters)
}

func TestClusterDetailEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{"not found", "/clusters/9", anonymizer.ErrClusterNotFound, http.StatusNotFound},
		{"suppressed", "/clusters/3", anonymizer.ErrClusterSuppressed, http.StatusForbidden},
		{"not ready", "/clusters/0", anonymizer.ErrNotReady, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{
				clusterFn: func(_ context.Context, id int) (*anonymizer.ClusterDetail, error) {
					return nil, fmt.Errorf("%w: id %d", tt.err, id)
				},
			}
			router := newTestRouter(svc)

			rec := doRequest(t, router, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestClusterDetailEndpointBadID(t *testing.T) {
	svc := &fakeService{
		clusterFn: func(context.Context, int) (*anonymizer.ClusterDetail, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/clusters/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClustersEndpoint(t *testing.T) {
	svc := &fakeService{
		clustersFn: func(context.Context) ([]anonymizer.ClusterInfo, error) {
			return []anonymizer.ClusterInfo{{ClusterID: 0, Size: 15}, {ClusterID: 2, Size: 30}}, nil
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/clusters", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []anonymizer.ClusterInfo
	decodeBody(t, rec, &infos)
	require.Len(t, infos, 2)
	assert.Equal(t, 2, infos[1].ClusterID)
}

func TestNotReadyMapsTo503(t *testing.T) {
	svc := &fakeService{
		nameStatsFn: func(context.Context, string) (*anonymizer.NameStats, error) {
			return nil, anonymizer.ErrNotReady
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/stats/name/Ana", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnexpectedErrorMapsTo500(t *testing.T) {
	svc := &fakeService{
		statsFn: func(context.Context, map[string]string) (*anonymizer.QueryStats, error) {
			return nil, errors.New("boom")
		},
	}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	svc := &fakeService{ready: true}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["fitted"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := NewRouter(RouterConfig{
		Service:  &fakeService{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gatherer: reg,
	})

	rec := doRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	svc := &fakeService{
		nameStatsFn: func(_ context.Context, name string) (*anonymizer.NameStats, error) {
			return &anonymizer.NameStats{Name: name}, nil
		},
	}
	router := NewRouter(RouterConfig{
		Service:   svc,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		RateLimit: 1,
	})

	first := doRequest(t, router, http.MethodGet, "/stats/name/Ana", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, router, http.MethodGet, "/stats/name/Ana", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	require.True(t, limiter.Allow())

	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
