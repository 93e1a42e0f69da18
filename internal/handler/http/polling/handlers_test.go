package polling_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"feed-aggregator/internal/domain/entity"
	"feed-aggregator/internal/handler/http/polling"
	"feed-aggregator/internal/infra/adapter/persistence/memory"
	"feed-aggregator/internal/usecase/poll"
	srcUC "feed-aggregator/internal/usecase/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct{ calls atomic.Int32 }

func (r *countingReader) ReadOne(_ context.Context, _ *url.URL) (*entity.Channel, error) {
	r.calls.Add(1)
	return &entity.Channel{Title: "t"}, nil
}

func newMux(t *testing.T) (*http.ServeMux, *poll.Poller, *countingReader) {
	t.Helper()
	registry := &srcUC.Service{Repo: memory.NewSourceRepo()}
	src, err := entity.NewSource("https://a.example/rss", 5)
	require.NoError(t, err)
	_, err = registry.AddOrUpdate(context.Background(), src)
	require.NoError(t, err)

	rd := &countingReader{}
	p := poll.New(rd, registry, nil, poll.WithIntervalUnit(time.Hour))
	registry.Observer = p
	t.Cleanup(func() { _ = p.Stop(context.Background()) })

	mux := http.NewServeMux()
	polling.Register(mux, p, time.Second)
	return mux, p, rd
}

func do(mux http.Handler, method, target string) (*httptest.ResponseRecorder, polling.StatusDTO) {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var st polling.StatusDTO
	_ = json.Unmarshal(rec.Body.Bytes(), &st)
	return rec, st
}

func TestPollingLifecycle(t *testing.T) {
	mux, p, rd := newMux(t)

	rec, st := do(mux, http.MethodGet, "/polling")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, st.Running)
	assert.Empty(t, st.Scheduled)

	rec, st = do(mux, http.MethodPost, "/polling/start")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, st.Running)
	assert.Equal(t, []polling.ScheduledDTO{{URL: "https://a.example/rss", RefreshIntervalMinutes: 5}}, st.Scheduled)
	assert.Eventually(t, func() bool { return rd.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	rec, _ = do(mux, http.MethodPost, "/polling/start")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"polling already started"}`, rec.Body.String())

	rec, st = do(mux, http.MethodPost, "/polling/stop")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, st.Running)
	assert.False(t, p.Running())

	rec, _ = do(mux, http.MethodPost, "/polling/stop")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPolling_MethodNotAllowed(t *testing.T) {
	mux, _, _ := newMux(t)

	rec, _ := do(mux, http.MethodGet, "/polling/start")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
