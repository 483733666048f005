package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensfeed/core/internal/pkg/cron"
)

func TestManualCronRun_OutlivesRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var ctxErr atomic.Value
	var ran atomic.Bool
	sched := cron.New()
	sched.Register(cron.Job{
		Name:     "slow_job",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			// Still running after the request handler has returned.
			time.Sleep(20 * time.Millisecond)
			if err := ctx.Err(); err != nil {
				ctxErr.Store(err.Error())
				return err
			}
			ran.Store(true)
			return nil
		},
	})

	r := gin.New()
	RegisterRoutes(r.Group(""), nil, nil, nil, sched)

	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/health/cron/run/slow_job", nil).WithContext(reqCtx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	cancel()
	require.Equal(t, http.StatusOK, w.Code)

	assert.Eventually(t, ran.Load, time.Second, 10*time.Millisecond)
	assert.Nil(t, ctxErr.Load(), "job saw a cancelled context")
}

func TestManualCronRun_UnknownJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r.Group(""), nil, nil, nil, cron.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health/cron/run/no_such_job", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
