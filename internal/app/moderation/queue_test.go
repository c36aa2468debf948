package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compassai/internal/domain"
)

type fakeBackend struct {
	mu       sync.Mutex
	apps     []domain.Application
	listErr  error
	patchErr error
	updates  []domain.StatusUpdate
	gate     chan struct{}
}

func (f *fakeBackend) AdminApplications(context.Context) ([]domain.Application, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.apps, nil
}

func (f *fakeBackend) UpdateApplicationStatus(ctx context.Context, _ int64, update domain.StatusUpdate) error {
	f.mu.Lock()
	f.updates = append(f.updates, update)
	f.mu.Unlock()
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.patchErr
}

type rollbackCounter struct {
	domain.NoopMetrics
	mu    sync.Mutex
	flows []string
}

func (r *rollbackCounter) ObserveRollback(flow string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows = append(r.flows, flow)
}

var fixedNow = time.Date(2025, 11, 14, 9, 30, 45, 0, time.UTC)

func loadedQueue(t *testing.T, backend *fakeBackend, opts ...Option) *Queue {
	t.Helper()
	if backend.apps == nil {
		backend.apps = SampleApplications()
	}
	opts = append(opts, WithClock(func() time.Time { return fixedNow }))
	q := NewQueue(backend, opts...)
	require.NoError(t, q.Load(context.Background()))
	return q
}

func TestQueue_RejectShowsImmediatelyThenRollsBack(t *testing.T) {
	backend := &fakeBackend{patchErr: errors.New("boom"), gate: make(chan struct{})}
	metrics := &rollbackCounter{}
	q := loadedQueue(t, backend, WithMetrics(metrics))

	done := make(chan error, 1)
	go func() {
		_, err := q.SetStatus(context.Background(), 1, domain.StatusRejected, "")
		done <- err
	}()

	require.Eventually(t, func() bool {
		app, _ := q.Get(1)
		return app.Status == domain.StatusRejected
	}, time.Second, 5*time.Millisecond)

	tentative, _ := q.Get(1)
	assert.Equal(t, domain.DefaultRejectReason, tentative.RejectReason)
	require.NotNil(t, tentative.ProcessedAt)
	assert.Equal(t, "2025-11-14 09:30", tentative.ProcessedAt.Display())
	assert.Equal(t, []int64{1}, q.View().Busy)

	close(backend.gate)
	require.Error(t, <-done)

	reverted, _ := q.Get(1)
	assert.Equal(t, domain.StatusPending, reverted.Status)
	assert.Nil(t, reverted.ProcessedAt)
	assert.Empty(t, reverted.RejectReason)

	view := q.View()
	assert.Equal(t, UpdateFailedText, view.Err)
	assert.Empty(t, view.Info)
	assert.Empty(t, view.Busy)
	assert.Equal(t, []string{"moderation"}, metrics.flows)
}

func TestQueue_ApproveCommits(t *testing.T) {
	backend := &fakeBackend{}
	q := loadedQueue(t, backend)

	app, err := q.SetStatus(context.Background(), 1, domain.StatusApproved, "ignored")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, app.Status)
	assert.Empty(t, app.RejectReason)
	assert.Equal(t, ApprovedText, q.View().Info)
	require.Len(t, backend.updates, 1)
	assert.Equal(t, domain.StatusUpdate{Status: domain.StatusApproved}, backend.updates[0])
}

func TestQueue_RejectWithReason(t *testing.T) {
	backend := &fakeBackend{}
	q := loadedQueue(t, backend)

	app, err := q.SetStatus(context.Background(), 1, domain.StatusRejected, "  중복 등록  ")
	require.NoError(t, err)
	assert.Equal(t, "중복 등록", app.RejectReason)
	assert.Equal(t, RejectedText, q.View().Info)
	assert.Equal(t, "중복 등록", backend.updates[0].RejectReason)
}

func TestQueue_ApplyGuards(t *testing.T) {
	q := loadedQueue(t, &fakeBackend{})

	_, err := q.Apply(99, domain.StatusApproved, "")
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeNotFound, code)

	_, err = q.Apply(1, domain.StatusPending, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	change, err := q.Apply(1, domain.StatusApproved, "")
	require.NoError(t, err)
	_, err = q.Apply(1, domain.StatusRejected, "")
	code, _ = domain.CodeFrom(err)
	assert.Equal(t, domain.CodeFailedPrecond, code)

	q.Reconcile(change, nil)
	_, err = q.Apply(1, domain.StatusRejected, "")
	assert.NoError(t, err)
}

func TestQueue_LoadFailure(t *testing.T) {
	q := NewQueue(&fakeBackend{listErr: errors.New("down")})
	require.Error(t, q.Load(context.Background()))
	view := q.View()
	assert.Equal(t, LoadFailedText, view.Err)
	assert.False(t, view.Loading)
	assert.Empty(t, view.Applications)
}

func TestFilterApplications(t *testing.T) {
	apps := SampleApplications()

	tests := []struct {
		name   string
		tab    Tab
		search string
		want   []int64
	}{
		{name: "pending", tab: TabPending, want: []int64{1}},
		{name: "approved", tab: TabApproved, want: []int64{2}},
		{name: "rejected", tab: TabRejected, want: []int64{3}},
		{name: "all", tab: TabAll, want: []int64{1, 2, 3}},
		{name: "applicant email", tab: TabAll, search: "DESIGNER@", want: []int64{2}},
		{name: "applicant name", tab: TabAll, search: " 홍길동 ", want: []int64{1}},
		{name: "subtitle", tab: TabAll, search: "csv", want: []int64{3}},
		{name: "tab and search", tab: TabPending, search: "csv", want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterApplications(apps, tt.tab, tt.search)
			ids := make([]int64, 0, len(got))
			for _, app := range got {
				ids = append(ids, app.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabPending, tab)

	tab, err = ParseTab("rejected")
	require.NoError(t, err)
	assert.Equal(t, TabRejected, tab)

	_, err = ParseTab("later")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	labels := make([]string, 0, 4)
	for _, info := range Tabs() {
		labels = append(labels, info.Label)
	}
	assert.Equal(t, []string{"대기", "승인됨", "거절됨", "전체"}, labels)
}

func TestSampleBackend(t *testing.T) {
	backend := NewSampleBackend()
	q := NewQueue(backend)
	require.NoError(t, q.Load(context.Background()))

	_, err := q.SetStatus(context.Background(), 1, domain.StatusRejected, "")
	require.NoError(t, err)

	apps, err := backend.AdminApplications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, apps[0].Status)
	assert.Equal(t, domain.DefaultRejectReason, apps[0].RejectReason)

	err = backend.UpdateApplicationStatus(context.Background(), 42, domain.StatusUpdate{Status: domain.StatusApproved})
	code, _ := domain.CodeFrom(err)
	assert.Equal(t, domain.CodeNotFound, code)
}
