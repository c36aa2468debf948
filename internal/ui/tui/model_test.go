package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"compassai/internal/app/account"
	"compassai/internal/app/catalog"
	"compassai/internal/app/discovery"
	"compassai/internal/domain"
	"compassai/internal/ui/events"
)

func newTestModel(t *testing.T, cfg Config) Model {
	t.Helper()
	dataset, err := catalog.NewDatasetProvider(context.Background(), "", zap.NewNop())
	require.NoError(t, err)
	cfg.Controller = discovery.NewController()
	cfg.Source = catalog.NewStaticSource(dataset)
	m := New(cfg)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	return m
}

// drain runs cmd and every command it batches, feeding the messages the
// model cares about back into Update.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, inner := range msg {
			m = drain(t, m, inner)
		}
		return m
	case searchTickMsg, resultMsg:
		next, follow := m.Update(msg)
		return drain(t, next.(Model), follow)
	default:
		return m
	}
}

func itemNames(m Model) []string {
	names := make([]string, 0, len(m.Snapshot().Items))
	for _, tool := range m.Snapshot().Items {
		names = append(names, tool.Name)
	}
	return names
}

func TestModel_InitialFetchListsEverything(t *testing.T) {
	m := newTestModel(t, Config{})
	next, cmd := m.Update(searchTickMsg{seq: 0})
	m = drain(t, next.(Model), cmd)

	assert.Equal(t, discovery.StateSuccess, m.Snapshot().State)
	assert.Len(t, m.Snapshot().Items, 18)
	view := m.View()
	assert.Contains(t, view, "챗지피티 (ChatGPT)")
	assert.Contains(t, view, "총 18개")
}

func TestModel_TypingSearches(t *testing.T) {
	m := newTestModel(t, Config{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("midj")})
	m = drain(t, next.(Model), cmd)

	assert.Equal(t, "midj", m.Query().Term)
	assert.Equal(t, []string{"미드저니 (Midjourney)"}, itemNames(m))
}

func TestModel_StaleTickIgnored(t *testing.T) {
	m := newTestModel(t, Config{})
	m.searchSeq = 3
	next, cmd := m.Update(searchTickMsg{seq: 2})
	assert.Nil(t, cmd)
	assert.Equal(t, discovery.StateIdle, next.(Model).Snapshot().State)
}

func TestModel_LatestCategoryWins(t *testing.T) {
	m := newTestModel(t, Config{})

	next, first := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	next, second := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	assert.True(t, m.Snapshot().Loading())

	secondMsg := second()
	firstMsg := first()

	next, _ = m.Update(secondMsg)
	m = next.(Model)
	next, _ = m.Update(firstMsg)
	m = next.(Model)

	assert.Equal(t, catalog.CategoryDesign, m.Snapshot().Query.Category)
	assert.Contains(t, itemNames(m), "미드저니 (Midjourney)")
	assert.NotContains(t, itemNames(m), "챗지피티 (ChatGPT)")
}

func TestModel_EmptyMessage(t *testing.T) {
	m := newTestModel(t, Config{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzzz")})
	m = drain(t, next.(Model), cmd)
	assert.Contains(t, m.View(), "해당하는 서비스가 없습니다.")
}

func TestModel_HeaderFollowsAuthEvents(t *testing.T) {
	hub := events.NewHub()
	session := account.WatchSession(hub, nil)
	defer session.Close()

	m := newTestModel(t, Config{Hub: hub, Session: session})
	assert.Contains(t, m.View(), "로그인이 필요합니다")

	hub.Auth.Publish(events.AuthChanged{User: &domain.Me{Name: "홍길동"}, Reason: events.AuthReasonLogin})
	msg := m.waitForAuth()()
	next, follow := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, follow)
	assert.True(t, strings.Contains(m.View(), "홍길동님"))

	m.shutdown()
	assert.Equal(t, 1, hub.Auth.Subscribers())
}

func TestModel_DetailToggle(t *testing.T) {
	m := newTestModel(t, Config{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("midj")})
	m = drain(t, next.(Model), cmd)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.True(t, m.detail)
	assert.Contains(t, m.View(), "midjourney.com")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, next.(Model).detail)
}

func TestModel_ListingErrorKeepsItemsAndReports(t *testing.T) {
	hub := events.NewHub()
	errs, unsubscribe := hub.Errors.Subscribe(1)
	defer unsubscribe()

	m := newTestModel(t, Config{Hub: hub})
	next, cmd := m.Update(searchTickMsg{seq: 0})
	m = drain(t, next.(Model), cmd)
	require.Len(t, m.Snapshot().Items, 18)

	m.source = discovery.SourceFunc(func(context.Context, catalog.Query) (domain.Page[domain.Tool], error) {
		return domain.Page[domain.Tool]{}, domain.E(domain.CodeUnavailable, "get tools", "서버 점검 중", nil)
	})
	cmd = m.fetch()
	m = drain(t, m, cmd)

	assert.Equal(t, "서버 점검 중", m.Snapshot().Err)
	assert.Len(t, m.Snapshot().Items, 18)
	assert.Contains(t, m.View(), "오류: 서버 점검 중")
	event := <-errs
	assert.Equal(t, "서버 점검 중", event.Message)
	m.shutdown()
}

func TestModel_DatasetReloadRefetches(t *testing.T) {
	hub := events.NewHub()
	m := newTestModel(t, Config{Hub: hub})
	require.Equal(t, 1, hub.Dataset.Subscribers())

	hub.Dataset.Publish(domain.DatasetUpdate{Snapshot: domain.DatasetSnapshot{Tools: make([]domain.Tool, 3), Revision: 2}})
	msg := m.waitForDataset()()
	next, follow := m.Update(msg)
	m = next.(Model)

	assert.NotNil(t, follow)
	assert.True(t, m.Snapshot().Loading())
	assert.Contains(t, m.notice, "데이터셋이 갱신되었습니다 (3개)")

	m.shutdown()
	assert.Equal(t, 0, hub.Dataset.Subscribers())
}
