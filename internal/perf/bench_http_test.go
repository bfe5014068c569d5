package perf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/app"
	_ "github.com/store-mgmt/store-api/testing"
)

func newSeededApp(tb testing.TB, categories int) (*app.Application, string) {
	tb.Helper()
	cfg := &app.Config{
		AuthSecretKey:         "perf-secret",
		TokenExpiresIn:        600,
		RefreshTokenExpiresIn: app.Lifetime(time.Hour),
		StoreDriver:           app.DriverMemory,
		CacheTTL:              time.Minute,
		RateLimitPerMinute:    1 << 20,
	}
	application, err := app.Build(cfg, nil, app.Infra{})
	require.NoError(tb, err)

	ctx := context.Background()
	for i := 0; i < categories; i++ {
		_, err := application.Categories.Create(ctx, fmt.Sprintf("category-%04d", i), "")
		require.NoError(tb, err)
	}
	user, err := application.Users.Create(ctx, "perf", "secret", "employee")
	require.NoError(tb, err)
	token, err := application.Tokens.IssueAccess(user.ID)
	require.NoError(tb, err)
	return application, token
}

func get(h http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res.Code
}

func TestCategoriesListLatencyTargets(t *testing.T) {
	application, token := newSeededApp(t, 500)
	h := application.Router

	scenarios := []struct {
		name      string
		path      string
		threshold time.Duration
	}{
		{name: "full list", path: "/api/v1/categories", threshold: 500 * time.Millisecond},
		{name: "filtered page", path: "/api/v1/categories?search=00&limit=10&offset=5", threshold: 500 * time.Millisecond},
	}

	for _, scenario := range scenarios {
		samples := make([]time.Duration, 0, 40)
		for i := 0; i < 40; i++ {
			start := time.Now()
			require.Equal(t, http.StatusOK, get(h, scenario.path, token))
			samples = append(samples, time.Since(start))
		}
		p95 := percentile95(samples)
		if p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func BenchmarkCategoriesListCached(b *testing.B) {
	application, token := newSeededApp(b, 500)
	h := application.Router
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if code := get(h, "/api/v1/categories?limit=10", token); code != http.StatusOK {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
