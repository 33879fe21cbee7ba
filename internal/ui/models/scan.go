// Package models holds the bubbletea models for the interactive TUI. The
// engine exposes only a pull-based Poll, so the scan view drives its own
// redraw cadence with a ticker and never receives callbacks from the scan.
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devpatel/spacelens/internal/session"
	"github.com/devpatel/spacelens/internal/ui/styles"
	"github.com/devpatel/spacelens/internal/walker"
	"github.com/dustin/go-humanize"
)

const pollInterval = 100 * time.Millisecond

// pollMsg triggers the next session poll.
type pollMsg time.Time

// estimateMsg carries the background file-count estimate for the root.
type estimateMsg int64

// ScanModel renders a running scan session with live totals and top files.
type ScanModel struct {
	sess      *session.Session
	spinner   spinner.Model
	status    session.Status
	startTime time.Time
	startErr  error
	estimate  int64
}

// NewScanModel wraps a not-yet-started session for display.
func NewScanModel(sess *session.Session) *ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &ScanModel{
		sess:      sess,
		spinner:   s,
		startTime: time.Now(),
	}
}

// Init starts the scan and the poll ticker.
func (m *ScanModel) Init() tea.Cmd {
	if err := m.sess.Start(); err != nil {
		m.startErr = err
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, pollTick(), m.estimateCmd())
}

// estimateCmd counts files in the background so the view can show progress
// against an approximate total. A failed estimate just leaves it at zero.
func (m *ScanModel) estimateCmd() tea.Cmd {
	root := m.sess.Root()
	return func() tea.Msg {
		n, err := walker.EstimateCount(context.Background(), root)
		if err != nil {
			return estimateMsg(0)
		}
		return estimateMsg(n)
	}
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// Update handles messages
func (m *ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.sess.Cancel()
			return m, nil
		case "q", "ctrl+c":
			m.sess.Cancel()
			return m, tea.Quit
		}

	case estimateMsg:
		m.estimate = int64(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		m.status = m.sess.Poll()
		if m.status.State.Terminal() {
			return m, tea.Quit
		}
		return m, pollTick()
	}

	return m, nil
}

// View renders the scan view
func (m *ScanModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Scanning " + m.sess.Root()))
	b.WriteString("\n\n")

	st := m.status
	switch {
	case st.State == session.StateFailed:
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Scan failed: %v", st.Err)))
		b.WriteString("\n")
		return b.String()
	case st.State.Terminal():
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("Scan %s", st.State)))
	default:
		b.WriteString(m.spinner.View())
		b.WriteString(" Scanning... ")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	}
	b.WriteString("\n\n")

	if st.Result != nil {
		res := st.Result
		progress := fmt.Sprintf("Visited %d entries, %d files", st.Visited, res.FileCount)
		if m.estimate > 0 && !st.State.Terminal() {
			progress = fmt.Sprintf("Visited %d of ~%d files", res.FileCount, m.estimate)
		}
		b.WriteString(fmt.Sprintf("%s, %s\n\n",
			progress,
			styles.FileSizeStyle.Render(humanize.IBytes(uint64(res.TotalBytes)))))

		if len(res.TopFiles) > 0 {
			b.WriteString(styles.SubtitleStyle.Render("Largest files:"))
			b.WriteString("\n")
			for _, f := range res.TopFiles {
				b.WriteString(fmt.Sprintf("  %-10s %s\n",
					styles.FileSizeStyle.Render(humanize.IBytes(uint64(f.Size))),
					styles.FilePathStyle.Render(truncatePath(f.Path, 70))))
			}
			b.WriteString("\n")
		}
	}

	if n := len(st.Warnings); n > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d warnings\n", n)))
	}

	if !st.State.Terminal() {
		b.WriteString(styles.DimStyle.Render("\nc: cancel scan  q: quit\n"))
	}

	return b.String()
}

// Status returns the last polled status, for the caller to report after the
// program exits.
func (m *ScanModel) Status() session.Status {
	return m.status
}

// StartErr returns the error from Start, if launching the scan failed.
func (m *ScanModel) StartErr() error {
	return m.startErr
}

func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}
