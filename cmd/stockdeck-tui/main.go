package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stockdeck/pkg/stockdeck"
)

// Styles.
var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	gainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	busyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	notifInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	notifSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	notifWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	notifError    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	notifDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	offlineStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func severityStyle(sev string) lipgloss.Style {
	switch sev {
	case "success":
		return notifSuccess
	case "warning":
		return notifWarning
	case "error":
		return notifError
	default:
		return notifInfo
	}
}

func directionArrow(dir string) (string, lipgloss.Style) {
	switch dir {
	case "up":
		return "▲", gainStyle
	case "down":
		return "▼", lossStyle
	default:
		return " ", dimStyle
	}
}

// Messages.
type eventMsg stockdeck.Event
type streamClosedMsg struct{}
type searchSentMsg struct{ err error }

// Model.
type model struct {
	client *stockdeck.Client
	events <-chan stockdeck.Event
	cancel context.CancelFunc
	logger *slog.Logger

	connected     bool
	session       string
	searchBusy    bool
	surfaceOrder  []string
	surfaces      map[string]stockdeck.SurfaceUpdate
	quote         *stockdeck.Quote
	notifications []stockdeck.Notification
	news          []stockdeck.Headline

	search   textinput.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func initialModel(client *stockdeck.Client, events <-chan stockdeck.Event, cancel context.CancelFunc, logger *slog.Logger) model {
	ti := textinput.New()
	ti.Placeholder = "symbol"
	ti.CharLimit = 10
	ti.Width = 12

	return model{
		client:   client,
		events:   events,
		cancel:   cancel,
		logger:   logger,
		surfaces: make(map[string]stockdeck.SurfaceUpdate),
		search:   ti,
	}
}

// waitForEvent blocks on the stream channel and hands the next event to Update.
func waitForEvent(events <-chan stockdeck.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(evt)
	}
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "q":
			if !m.search.Focused() {
				m.cancel()
				return m, tea.Quit
			}
		case "/":
			if !m.search.Focused() {
				m.search.Focus()
				return m, textinput.Blink
			}
		case "esc":
			if m.search.Focused() {
				m.search.Blur()
				m.search.SetValue("")
				return m, m.sendSearch("")
			}
			return m, nil
		case "enter":
			if m.search.Focused() {
				query := m.search.Value()
				m.search.Blur()
				return m, m.sendCommit(query)
			}
			return m, nil
		}

		if m.search.Focused() {
			m.search, cmd = m.search.Update(msg)
			// Every edit flows into the server side debouncer.
			return m, tea.Batch(cmd, m.sendSearch(m.search.Value()))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case eventMsg:
		m.apply(stockdeck.Event(msg))
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		m.connected = false
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case searchSentMsg:
		if msg.err != nil {
			m.logger.Warn("search request failed", "error", msg.err)
		}
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) sendSearch(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return searchSentMsg{err: client.Search(ctx, query)}
	}
}

func (m *model) sendCommit(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return searchSentMsg{err: client.Commit(ctx, query)}
	}
}

// apply folds one stream event into the local board replica.
func (m *model) apply(evt stockdeck.Event) {
	switch evt.Type {
	case stockdeck.EventSnapshot:
		if evt.Snapshot == nil {
			return
		}
		m.connected = true
		m.session = evt.Snapshot.Session
		m.searchBusy = evt.Snapshot.SearchBusy
		m.quote = evt.Snapshot.Quote
		m.notifications = evt.Snapshot.Notifications
		m.news = evt.Snapshot.News
		m.surfaces = make(map[string]stockdeck.SurfaceUpdate, len(evt.Snapshot.Surfaces))
		m.surfaceOrder = m.surfaceOrder[:0]
		for _, s := range evt.Snapshot.Surfaces {
			m.surfaceOrder = append(m.surfaceOrder, s.ID)
			m.surfaces[s.ID] = s
		}

	case stockdeck.EventSurface:
		if evt.Surface == nil {
			return
		}
		if _, ok := m.surfaces[evt.Surface.ID]; !ok {
			m.surfaceOrder = append(m.surfaceOrder, evt.Surface.ID)
		}
		m.surfaces[evt.Surface.ID] = *evt.Surface

	case stockdeck.EventSurfaceRemoved:
		delete(m.surfaces, evt.SurfaceID)
		for i, id := range m.surfaceOrder {
			if id == evt.SurfaceID {
				m.surfaceOrder = append(m.surfaceOrder[:i], m.surfaceOrder[i+1:]...)
				break
			}
		}

	case stockdeck.EventQuote:
		m.quote = evt.Quote

	case stockdeck.EventSearch:
		if evt.SearchBusy != nil {
			m.searchBusy = *evt.SearchBusy
		}

	case stockdeck.EventSession:
		m.session = evt.Session

	case stockdeck.EventNotification:
		if evt.Notification == nil {
			return
		}
		for i := range m.notifications {
			if m.notifications[i].ID == evt.Notification.ID {
				m.notifications[i] = *evt.Notification
				return
			}
		}
		m.notifications = append(m.notifications, *evt.Notification)

	case stockdeck.EventNotificationRemoved:
		for i := range m.notifications {
			if m.notifications[i].ID == evt.NotificationID {
				m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
				break
			}
		}

	case stockdeck.EventHeadline:
		if evt.Headline == nil {
			return
		}
		m.news = append([]stockdeck.Headline{*evt.Headline}, m.news...)
		if len(m.news) > 50 {
			m.news = m.news[:50]
		}
	}
}

func (m model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	status := offlineStyle.Render("offline")
	if m.connected {
		status = m.session
	}
	headerText := fmt.Sprintf(" stockdeck    session: %s ", status)
	header := headerStyle.Render(padOrTrunc(headerText, m.width))

	footerText := " q quit  / search  enter lookup  esc clear  pgup/dn scroll"
	footer := footerStyle.Render(padOrTrunc(footerText, m.width))

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func (m model) renderContent() string {
	var b strings.Builder

	m.renderSearch(&b)
	m.renderSurfaces(&b, "index", "MARKET INDEXES")
	m.renderSurfaces(&b, "watchlist", "WATCHLIST")
	m.renderSurfaces(&b, "portfolio", "PORTFOLIO")
	m.renderNotifications(&b)
	m.renderNews(&b)

	return b.String()
}

func (m model) renderSearch(b *strings.Builder) {
	b.WriteString("\n  ")
	b.WriteString(labelStyle.Render("Search: "))
	b.WriteString(m.search.View())
	if m.searchBusy {
		b.WriteString(busyStyle.Render("  looking up..."))
	}
	b.WriteString("\n")

	if m.quote != nil {
		q := m.quote
		arrow, style := directionArrow("up")
		if q.Change < 0 {
			arrow, style = directionArrow("down")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			labelStyle.Render(q.Symbol),
			dimStyle.Render(q.DisplayName)))
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			valueStyle.Render(fmt.Sprintf("%.2f", q.Price)),
			style.Render(fmt.Sprintf("%s %+.2f (%+.2f%%)", arrow, q.Change, q.ChangePercent))))
	}
}

func (m model) renderSurfaces(b *strings.Builder, class, title string) {
	var ids []string
	for _, id := range m.surfaceOrder {
		if m.surfaces[id].Class == class {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(" " + title + " "))
	b.WriteString("\n")
	for _, id := range ids {
		s := m.surfaces[id]
		arrow, style := directionArrow(s.Direction)
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			labelStyle.Render(fmt.Sprintf("%-28s", s.Label)),
			valueStyle.Render(fmt.Sprintf("%10s", s.Text)),
			style.Render(fmt.Sprintf("%s %+.2f", arrow, s.Delta))))
	}
}

func (m model) renderNotifications(b *strings.Builder) {
	if len(m.notifications) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(" NOTIFICATIONS "))
	b.WriteString("\n")
	for _, n := range m.notifications {
		style := severityStyle(n.Severity)
		if n.Phase == "entering" || n.Phase == "exiting" {
			style = notifDimStyle
		}
		b.WriteString("  ")
		b.WriteString(style.Render(fmt.Sprintf("[%s] %s", n.Severity, n.Message)))
		b.WriteString("\n")
	}
}

func (m model) renderNews(b *strings.Builder) {
	if len(m.news) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(" NEWS "))
	b.WriteString("\n")
	for _, h := range m.news {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			dimStyle.Render(h.Time.Local().Format("15:04")),
			sourceStyle.Render(h.Source),
			valueStyle.Render(h.Text)))
	}
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}

func main() {
	baseURL := "http://localhost:8080"
	if u := os.Getenv("STOCKDECK_URL"); u != "" {
		baseURL = u
	}

	logPath := fmt.Sprintf("/tmp/stockdeck-tui-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client := stockdeck.NewClient(baseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan stockdeck.Event, 64)
	go func() {
		defer close(events)
		err := client.Stream(ctx, func(evt stockdeck.Event) {
			events <- evt
		})
		if ctx.Err() == nil {
			logger.Error("stream ended", "error", err)
		}
	}()

	p := tea.NewProgram(
		initialModel(client, events, cancel, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
