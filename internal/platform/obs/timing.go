package obs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	RunIDKey     ctxKey = "run_id"
)

// WithRunID tags ctx with a correlation id for one optimization run, so
// every Time() call logged during that run (pipeline.Run and its two-opt,
// anneal and wait-time stages) shares a single run_id field.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return context.WithValue(ctx, RunIDKey, id), id
}

func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)
	runID, _ := ctx.Value(RunIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("run_id=%s req_id=%s op=%s dur=%dms err=%v", runID, reqID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("run_id=%s req_id=%s op=%s dur=%dms", runID, reqID, name, dur.Milliseconds())
	}
}
