package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"compassai/internal/domain"
)

const metricsFlow = "moderation"

// Display texts.
const (
	LoadFailedText   = "AI 등록 신청 목록을 불러오지 못했습니다."
	UpdateFailedText = "상태 변경에 실패했습니다. 다시 시도해 주세요."
	ApprovedText     = "승인 처리되었습니다."
	RejectedText     = "거절 처리되었습니다."
)

// Tab selects which applications the review list shows.
type Tab string

const (
	TabPending  Tab = "PENDING"
	TabApproved Tab = "APPROVED"
	TabRejected Tab = "REJECTED"
	TabAll      Tab = "ALL"
)

// TabInfo is a tab key with its label.
type TabInfo struct {
	Key   Tab
	Label string
}

// Tabs lists the review tabs in display order.
func Tabs() []TabInfo {
	return []TabInfo{
		{Key: TabPending, Label: "대기"},
		{Key: TabApproved, Label: "승인됨"},
		{Key: TabRejected, Label: "거절됨"},
		{Key: TabAll, Label: "전체"},
	}
}

// ParseTab accepts a tab key in any case; empty selects the pending tab.
func ParseTab(raw string) (Tab, error) {
	value := Tab(strings.ToUpper(strings.TrimSpace(raw)))
	switch value {
	case "":
		return TabPending, nil
	case TabPending, TabApproved, TabRejected, TabAll:
		return value, nil
	default:
		return "", domain.E(domain.CodeInvalidArgument, "parse tab", fmt.Sprintf("알 수 없는 탭입니다: %s", raw), domain.ErrInvalidRequest)
	}
}

// Backend is the admin API used by the review queue.
type Backend interface {
	AdminApplications(ctx context.Context) ([]domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, update domain.StatusUpdate) error
}

// Change is a tentative status change awaiting the backend's answer.
type Change struct {
	ID        int64
	Previous  domain.Application
	Tentative domain.Application
	Update    domain.StatusUpdate
}

// View is the display state of the review queue.
type View struct {
	Applications []domain.Application
	Loading      bool
	Err          string
	Info         string
	Busy         []int64
}

// Queue holds the admin review list and applies status changes
// optimistically.
type Queue struct {
	backend Backend
	logger  *zap.Logger
	metrics domain.Metrics
	now     func() time.Time

	mu      sync.Mutex
	apps    []domain.Application
	busy    map[int64]struct{}
	loading bool
	errText string
	info    string
}

type Option func(*Queue)

func WithLogger(logger *zap.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger.Named("moderation")
		}
	}
}

func WithMetrics(metrics domain.Metrics) Option {
	return func(q *Queue) {
		if metrics != nil {
			q.metrics = metrics
		}
	}
}

// WithClock overrides the time source used for processedAt.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

func NewQueue(backend Backend, opts ...Option) *Queue {
	q := &Queue{
		backend: backend,
		logger:  zap.NewNop(),
		metrics: domain.NoopMetrics{},
		now:     time.Now,
		busy:    make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load replaces the list with the backend's applications.
func (q *Queue) Load(ctx context.Context) error {
	q.mu.Lock()
	q.loading = true
	q.errText = ""
	q.mu.Unlock()

	apps, err := q.backend.AdminApplications(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.loading = false
	if err != nil {
		q.errText = LoadFailedText
		q.logger.Warn("load applications failed", zap.Error(err))
		return domain.Wrap(domain.CodeUnavailable, "load applications", err)
	}
	q.apps = make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		q.apps = append(q.apps, app.Clone())
	}
	return nil
}

// Filter returns the applications on tab matching search, which is compared
// case-insensitively against the name, subtitle, applicant name and email.
func (q *Queue) Filter(tab Tab, search string) []domain.Application {
	q.mu.Lock()
	defer q.mu.Unlock()
	return FilterApplications(q.apps, tab, search)
}

// FilterApplications applies the tab and search filters to apps.
func FilterApplications(apps []domain.Application, tab Tab, search string) []domain.Application {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		if tab != TabAll && tab != "" && string(app.Status) != string(tab) {
			continue
		}
		if needle != "" && !matchesSearch(app, needle) {
			continue
		}
		out = append(out, app.Clone())
	}
	return out
}

func matchesSearch(app domain.Application, needle string) bool {
	for _, field := range []string{app.Name, app.SubTitle, app.Applicant.Name, app.Applicant.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Apply makes the change visible immediately and marks the application busy.
// The returned change must be passed to Reconcile once the backend answers.
func (q *Queue) Apply(id int64, next domain.ApplicationStatus, reason string) (Change, error) {
	if next != domain.StatusApproved && next != domain.StatusRejected {
		return Change{}, domain.E(domain.CodeInvalidArgument, "apply status", fmt.Sprintf("잘못된 상태 값입니다: %s", next), domain.ErrInvalidRequest)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if _, busy := q.busy[id]; busy {
		return Change{}, domain.E(domain.CodeFailedPrecond, "apply status", "이미 처리 중인 신청입니다.", nil)
	}
	index := q.indexLocked(id)
	if index < 0 {
		return Change{}, domain.E(domain.CodeNotFound, "apply status", fmt.Sprintf("신청을 찾을 수 없습니다: %d", id), nil)
	}

	q.errText = ""
	q.info = ""
	previous := q.apps[index].Clone()
	tentative := previous.Clone()
	tentative.Status = next
	processed := domain.NewLocalDateTime(q.now().Truncate(time.Minute))
	tentative.ProcessedAt = &processed
	reason = strings.TrimSpace(reason)
	if next == domain.StatusRejected {
		tentative.RejectReason = reason
		if tentative.RejectReason == "" {
			tentative.RejectReason = domain.DefaultRejectReason
		}
	} else {
		tentative.RejectReason = ""
		reason = ""
	}

	q.apps[index] = tentative
	q.busy[id] = struct{}{}
	return Change{
		ID:        id,
		Previous:  previous,
		Tentative: tentative.Clone(),
		Update:    domain.StatusUpdate{Status: next, RejectReason: reason},
	}, nil
}

// Reconcile commits change when err is nil, otherwise restores the captured
// previous application and shows the failure text.
func (q *Queue) Reconcile(change Change, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.busy, change.ID)

	if err == nil {
		if change.Update.Status == domain.StatusApproved {
			q.info = ApprovedText
		} else {
			q.info = RejectedText
		}
		return
	}

	q.metrics.ObserveRollback(metricsFlow)
	q.logger.Warn("status change failed", zap.Int64("id", change.ID), zap.Error(err))
	q.errText = UpdateFailedText
	q.info = ""
	if index := q.indexLocked(change.ID); index >= 0 {
		q.apps[index] = change.Previous.Clone()
	}
}

// SetStatus applies, sends and reconciles one status change.
func (q *Queue) SetStatus(ctx context.Context, id int64, next domain.ApplicationStatus, reason string) (domain.Application, error) {
	change, err := q.Apply(id, next, reason)
	if err != nil {
		return domain.Application{}, err
	}
	err = q.backend.UpdateApplicationStatus(ctx, id, change.Update)
	q.Reconcile(change, err)
	if err != nil {
		return change.Previous, domain.Wrap(domain.CodeUnavailable, "set status", err)
	}
	return change.Tentative, nil
}

// Get returns one application.
func (q *Queue) Get(id int64) (domain.Application, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index := q.indexLocked(id); index >= 0 {
		return q.apps[index].Clone(), true
	}
	return domain.Application{}, false
}

// View returns the current display state.
func (q *Queue) View() View {
	q.mu.Lock()
	defer q.mu.Unlock()
	view := View{
		Applications: FilterApplications(q.apps, TabAll, ""),
		Loading:      q.loading,
		Err:          q.errText,
		Info:         q.info,
	}
	for id := range q.busy {
		view.Busy = append(view.Busy, id)
	}
	return view
}

func (q *Queue) indexLocked(id int64) int {
	for i, app := range q.apps {
		if app.ID == id {
			return i
		}
	}
	return -1
}
