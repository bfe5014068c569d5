package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/store-mgmt/store-api/internal/categories"
	jobmetrics "github.com/store-mgmt/store-api/internal/jobs"
	"github.com/store-mgmt/store-api/internal/platform/cache"
)

func TestWarmupTaskPayload(t *testing.T) {
	task, err := NewCategoriesWarmupTask(categories.ListQuery{Search: "fr", Offset: 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, TaskCategoriesWarmup, task.Type())

	var payload CategoriesWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, categories.ListQuery{Search: "fr", Offset: 5, Limit: 10}, payload.Query())
}

func TestCategoriesWarmupPopulatesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	versioned := cache.NewRedis(client, "categories", time.Minute)

	svc := categories.NewService(categories.NewMemoryRepository(), versioned, nil)
	_, err := svc.Create(context.Background(), "Fresh", "")
	require.NoError(t, err)

	job := NewCategoriesWarmupJob(svc, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewCategoriesWarmupTask(categories.ListQuery{Limit: categories.DefaultPageSize})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	key, err := versioned.BuildKey(context.Background(), categories.ListQuery{Limit: categories.DefaultPageSize}.CacheParts()...)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key), "warmup should store %s", key)
}

func TestCategoriesWarmupSkipsBadPayloads(t *testing.T) {
	svc := categories.NewService(categories.NewMemoryRepository(), nil, nil)
	job := NewCategoriesWarmupJob(svc, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCategoriesWarmup, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	task, err := NewCategoriesWarmupTask(categories.ListQuery{Limit: -1})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)

	var unconfigured *CategoriesWarmupJob
	assert.Error(t, unconfigured.Handle(context.Background(), task))
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name    string
		insp    QueueInspector
		status  int
		pending int
	}{
		{"disabled", nil, http.StatusOK, 0},
		{"queue info", stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4}}, http.StatusOK, 4},
		{"queue not created yet", stubInspector{err: asynq.ErrQueueNotFound}, http.StatusOK, 0},
		{"redis down", stubInspector{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHandler(tc.insp, nil).MountRoutes(r)
			res := httptest.NewRecorder()
			r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tc.status, res.Code)
			if tc.status != http.StatusOK {
				return
			}
			var body queueHealth
			require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
			assert.Equal(t, QueueDefault, body.Queue)
			assert.Equal(t, tc.pending, body.Pending)
		})
	}
}
