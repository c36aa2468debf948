package likes

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/ui"
)

const testBaseURL = "http://compass.test"

type rollbacks struct {
	domain.NoopMetrics
	mu    sync.Mutex
	count int
}

func (r *rollbacks) ObserveRollback(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
}

func newClient(t *testing.T) (*api.Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client, err := api.New(api.Config{BaseURL: testBaseURL, Timeout: time.Second}, api.WithTransport(transport))
	require.NoError(t, err)
	return client, transport
}

func TestToggle_LikeCommitsServerStatus(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/7/like/status",
		httpmock.NewStringResponder(200, `{"toolId":7,"liked":false,"likeCount":3}`))
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/7/like",
		httpmock.NewStringResponder(200, `{"toolId":7,"liked":true,"likeCount":10}`))

	tracker := NewTracker(client)
	status, err := tracker.Toggle(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatus{ToolID: 7, Liked: true, LikeCount: 10}, status)

	current, ok := tracker.Current("7")
	require.True(t, ok)
	assert.Equal(t, status, current)
}

func TestToggle_UnlikeWithEmptyBodyKeepsTentative(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/7/like/status",
		httpmock.NewStringResponder(200, `{"toolId":7,"liked":true,"likeCount":1}`))
	transport.RegisterResponder(http.MethodDelete, testBaseURL+"/api/tools/7/like",
		httpmock.NewStringResponder(204, ""))

	tracker := NewTracker(client)
	status, err := tracker.Toggle(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeStatus{ToolID: 7, Liked: false, LikeCount: 0}, status)
}

func TestToggle_UnauthenticatedRollsBack(t *testing.T) {
	client, transport := newClient(t)
	transport.RegisterResponder(http.MethodGet, testBaseURL+"/api/tools/7/like/status",
		httpmock.NewStringResponder(200, `{"toolId":7,"liked":false,"likeCount":3}`))
	transport.RegisterResponder(http.MethodPost, testBaseURL+"/api/tools/7/like",
		httpmock.NewStringResponder(401, "로그인이 필요합니다."))

	metrics := &rollbacks{}
	tracker := NewTracker(client, WithMetrics(metrics))
	status, err := tracker.Toggle(context.Background(), "7")
	require.Error(t, err)
	assert.True(t, api.IsUnauthenticated(err))
	assert.Equal(t, "로그인이 필요합니다.", ui.MapError(err, ""))
	assert.Equal(t, domain.LikeStatus{ToolID: 7, Liked: false, LikeCount: 3}, status)

	current, _ := tracker.Current("7")
	assert.Equal(t, status, current)
	assert.Equal(t, 1, metrics.count)
}

type blockingClient struct {
	release chan struct{}
	entered chan struct{}
}

func (b *blockingClient) LikeStatus(context.Context, domain.ToolID) (domain.LikeStatus, error) {
	return domain.LikeStatus{ToolID: 1, LikeCount: 5}, nil
}

func (b *blockingClient) Like(context.Context, domain.ToolID) (domain.LikeStatus, error) {
	close(b.entered)
	<-b.release
	return domain.LikeStatus{ToolID: 1, Liked: true, LikeCount: 6}, nil
}

func (b *blockingClient) Unlike(context.Context, domain.ToolID) (domain.LikeStatus, error) {
	return domain.LikeStatus{ToolID: 1, LikeCount: 5}, nil
}

func TestToggle_TentativeVisibleAndBusyGuard(t *testing.T) {
	client := &blockingClient{release: make(chan struct{}), entered: make(chan struct{})}
	tracker := NewTracker(client)

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Toggle(context.Background(), "1")
		done <- err
	}()
	<-client.entered

	current, _ := tracker.Current("1")
	assert.True(t, current.Liked)
	assert.Equal(t, int64(6), current.LikeCount)

	_, err := tracker.Toggle(context.Background(), "1")
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeFailedPrecond, code)

	close(client.release)
	require.NoError(t, <-done)

	tracker.Forget()
	_, ok := tracker.Current("1")
	assert.False(t, ok)
}
