package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"compassai/internal/app/account"
	"compassai/internal/app/catalog"
	"compassai/internal/app/discovery"
	"compassai/internal/app/likes"
	"compassai/internal/domain"
	"compassai/internal/ui"
	"compassai/internal/ui/events"
)

const searchPlaceholder = "어떤 AI 서비스를 찾으시나요?"

// Config wires the browse view.
type Config struct {
	Context    context.Context
	Controller *discovery.Controller
	Source     discovery.Source
	// Session and Hub drive the header line; both are optional.
	Session  *account.Session
	Hub      *events.Hub
	Likes    *likes.Tracker
	Debounce time.Duration
	PageSize int
	Styles   *Styles
}

type searchTickMsg struct {
	seq int
}

type resultMsg struct {
	ticket discovery.Ticket
	page   domain.Page[domain.Tool]
	err    error
}

type authMsg struct {
	event events.AuthChanged
}

type datasetMsg struct {
	update domain.DatasetUpdate
}

type likeMsg struct {
	id     domain.ToolID
	status domain.LikeStatus
	err    error
}

// Model is the bubbletea model of the tool browser.
type Model struct {
	ctx        context.Context
	controller *discovery.Controller
	source     discovery.Source
	session    *account.Session
	tracker    *likes.Tracker
	hub        *events.Hub
	authCh     <-chan events.AuthChanged
	unsubAuth  func()
	datasetCh  <-chan domain.DatasetUpdate
	unsubData  func()
	debounce   time.Duration
	pageSize   int
	styles     Styles

	input      textinput.Model
	categories []domain.Category
	active     int
	searchSeq  int
	cancel     context.CancelFunc
	snap       discovery.Snapshot
	cursor     int
	detail     bool
	notice     string
	width      int
	quitting   bool
}

func New(cfg Config) Model {
	input := textinput.New()
	input.Placeholder = searchPlaceholder
	input.Prompt = "검색 > "
	input.Focus()

	styles := DefaultStyles()
	if cfg.Styles != nil {
		styles = *cfg.Styles
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	size := cfg.PageSize
	if size <= 0 {
		size = domain.DefaultHomePageSize
	}

	m := Model{
		ctx:        ctx,
		controller: cfg.Controller,
		source:     cfg.Source,
		session:    cfg.Session,
		tracker:    cfg.Likes,
		hub:        cfg.Hub,
		debounce:   cfg.Debounce,
		pageSize:   size,
		styles:     styles,
		input:      input,
		categories: append([]domain.Category{{ID: "", Label: "전체"}}, catalog.All()...),
		width:      80,
	}
	if cfg.Hub != nil {
		m.authCh, m.unsubAuth = cfg.Hub.Auth.Subscribe(4)
		m.datasetCh, m.unsubData = cfg.Hub.Dataset.Subscribe(1)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForAuth(), m.waitForDataset(), func() tea.Msg { return searchTickMsg{seq: 0} })
}

func (m Model) waitForDataset() tea.Cmd {
	if m.datasetCh == nil {
		return nil
	}
	ch := m.datasetCh
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return datasetMsg{update: update}
	}
}

func (m Model) waitForAuth() tea.Cmd {
	if m.authCh == nil {
		return nil
	}
	ch := m.authCh
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return authMsg{event: event}
	}
}

// Query is the listing query for the current input and category.
func (m Model) Query() catalog.Query {
	q := catalog.HomeQuery(m.categories[m.active].ID, m.input.Value())
	q.Size = m.pageSize
	return q
}

// Snapshot is the listing state the view renders.
func (m Model) Snapshot() discovery.Snapshot {
	return m.snap
}

// fetch issues the current query. Begin runs here, on the update loop, so
// generations follow input order.
func (m *Model) fetch() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	q := m.Query()
	ticket := m.controller.Begin(q)
	m.snap = m.controller.Snapshot()
	source := m.source
	return func() tea.Msg {
		page, err := source.ListTools(ctx, q)
		return resultMsg{ticket: ticket, page: page, err: err}
	}
}

func (m *Model) scheduleSearch() tea.Cmd {
	m.searchSeq++
	seq := m.searchSeq
	if m.debounce <= 0 {
		return func() tea.Msg { return searchTickMsg{seq: seq} }
	}
	return tea.Tick(m.debounce, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
		return m, nil

	case searchTickMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, m.fetch()

	case resultMsg:
		if m.controller.Commit(msg.ticket, msg.page, msg.err) {
			if msg.err != nil {
				ui.Report(m.hub, msg.err, domain.DefaultRequestFailedText)
			}
			m.snap = m.controller.Snapshot()
			if m.cursor >= len(m.snap.Items) {
				m.cursor = max(len(m.snap.Items)-1, 0)
			}
		}
		return m, nil

	case authMsg:
		if msg.event.Reason == events.AuthReasonLogout && m.tracker != nil {
			m.tracker.Forget()
		}
		return m, m.waitForAuth()

	case datasetMsg:
		m.notice = fmt.Sprintf("데이터셋이 갱신되었습니다 (%s개)", humanize.Comma(int64(len(msg.update.Snapshot.Tools))))
		return m, tea.Batch(m.fetch(), m.waitForDataset())

	case likeMsg:
		if msg.err != nil {
			m.notice = ui.Report(m.hub, msg.err, domain.DefaultRequestFailedText)
		} else if msg.status.Liked {
			m.notice = fmt.Sprintf("좋아요 %s", humanize.Comma(msg.status.LikeCount))
		} else {
			m.notice = "좋아요 취소"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if m.detail && msg.Type == tea.KeyEsc {
			m.detail = false
			return m, nil
		}
		m.quitting = true
		m.shutdown()
		return m, tea.Quit
	case tea.KeyTab, tea.KeyRight:
		m.active = (m.active + 1) % len(m.categories)
		m.cursor = 0
		return m, m.fetch()
	case tea.KeyShiftTab, tea.KeyLeft:
		m.active = (m.active - 1 + len(m.categories)) % len(m.categories)
		m.cursor = 0
		return m, m.fetch()
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyEnter:
		if len(m.snap.Items) > 0 {
			m.detail = !m.detail
		}
		return m, nil
	case tea.KeyCtrlL:
		return m, m.toggleLike()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.scheduleSearch())
}

func (m Model) toggleLike() tea.Cmd {
	if m.tracker == nil || len(m.snap.Items) == 0 {
		return nil
	}
	id := m.snap.Items[m.cursor].ID
	tracker := m.tracker
	ctx := m.ctx
	return func() tea.Msg {
		status, err := tracker.Toggle(ctx, id)
		return likeMsg{id: id, status: status, err: err}
	}
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubAuth != nil {
		m.unsubAuth()
	}
	if m.unsubData != nil {
		m.unsubData()
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.categoryBar())
	b.WriteString("\n\n")

	if m.detail && len(m.snap.Items) > 0 {
		b.WriteString(m.detailView(m.snap.Items[m.cursor]))
	} else {
		b.WriteString(m.listView())
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("←/→ 카테고리 · ↑/↓ 이동 · enter 상세 · ctrl+l 좋아요 · esc 종료"))
	return b.String()
}

func (m Model) headerLine() string {
	session := "로그인이 필요합니다"
	if m.session != nil {
		session = m.session.Header()
	}
	return m.styles.Brand.Render("CompassAI") + "  " + m.styles.Session.Render(session)
}

func (m Model) categoryBar() string {
	parts := make([]string, 0, len(m.categories))
	for i, category := range m.categories {
		if i == m.active {
			parts = append(parts, m.styles.ActiveCategory.Render(category.Label))
			continue
		}
		parts = append(parts, m.styles.Category.Render(category.Label))
	}
	return strings.Join(parts, " ")
}

func (m Model) listView() string {
	var b strings.Builder
	switch {
	case m.snap.Loading():
		b.WriteString(m.styles.Muted.Render(ui.LoadingText))
		b.WriteString("\n")
	case m.snap.Err != "":
		b.WriteString(m.styles.Error.Render(ui.ErrorBanner(m.snap.Err)))
		b.WriteString("\n")
	case m.snap.State == discovery.StateSuccess && len(m.snap.Items) == 0:
		b.WriteString(m.styles.Muted.Render(m.snap.EmptyMessage()))
		b.WriteString("\n")
	}
	for i, tool := range m.snap.Items {
		title := m.styles.Title.Render(tool.Name)
		marker := "  "
		if i == m.cursor {
			title = m.styles.Selected.Render(tool.Name)
			marker = "> "
		}
		line := marker + title
		if tool.SubTitle != "" {
			line += "  " + m.styles.Subtitle.Render(tool.SubTitle)
		}
		if tool.Origin != "" {
			line += "  [" + tool.Origin + "]"
		}
		if m.tracker != nil {
			if status, ok := m.tracker.Current(tool.ID); ok && status.Liked {
				line += " " + m.styles.Liked.Render("♥")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.snap.TotalElements > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("총 %s개", humanize.Comma(m.snap.TotalElements))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView(tool domain.Tool) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", tool.Name)
	if tool.SubTitle != "" {
		fmt.Fprintf(&md, "_%s_\n\n", tool.SubTitle)
	}
	if categories := tool.AllCategories(); len(categories) > 0 {
		fmt.Fprintf(&md, "**카테고리**: %s\n\n", strings.Join(categories, ", "))
	}
	if tool.URL != "" {
		fmt.Fprintf(&md, "**웹사이트**: %s\n\n", tool.URL)
	}
	if tool.Long != "" {
		md.WriteString(tool.Long)
		md.WriteString("\n")
	}
	return m.styles.Detail.Render(renderMarkdown(md.String(), m.width-4))
}

func renderMarkdown(source string, width int) string {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return source
	}
	out, err := renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimSpace(out)
}

// Run starts the browse view on the terminal.
func Run(cfg Config) error {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	_, err := tea.NewProgram(New(cfg), tea.WithContext(cfg.Context)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
