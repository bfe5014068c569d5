package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/store-mgmt/store-api/internal/categories"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCategoriesWarmup repopulates a categories listing cache entry.
	TaskCategoriesWarmup = "categories:warmup"
)

// CategoriesWarmupPayload names the listing window to warm.
type CategoriesWarmupPayload struct {
	Search string `json:"search"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// Query converts the payload into a listing query.
func (p CategoriesWarmupPayload) Query() categories.ListQuery {
	return categories.ListQuery{Search: p.Search, Offset: p.Offset, Limit: p.Limit}
}

// NewCategoriesWarmupTask constructs an Asynq task.
func NewCategoriesWarmupTask(q categories.ListQuery) (*asynq.Task, error) {
	data, err := json.Marshal(CategoriesWarmupPayload{Search: q.Search, Offset: q.Offset, Limit: q.Limit})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCategoriesWarmup, data), nil
}
