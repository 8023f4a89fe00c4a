// Package tui renders batch progress in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docscan/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docscan/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docscan/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
)

const maxBarWidth = 60

// fileRow is one submitted file and its latest stage.
type fileRow struct {
	name  string
	stage domain.Stage
}

// ProgressModel shows one row per file plus an overall progress bar.
// It quits when the batch reports BatchDone.
type ProgressModel struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	bar     progress.Model
	spinner spinner.Model

	files     []fileRow
	cancel    context.CancelFunc
	cancelled bool

	done  bool
	batch *domain.Batch
	err   error
}

// NewProgressModel creates a model for the named files. cancel is called
// when the user asks to stop; it may be nil.
func NewProgressModel(names []string, cancel context.CancelFunc) ProgressModel {
	s := styles.DefaultStyles()
	theme := s.Theme()

	files := make([]fileRow, len(names))
	for i, n := range names {
		files[i] = fileRow{name: n, stage: domain.Stage{Kind: domain.StageQueued}}
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Stage

	return ProgressModel{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		help:    help.New(),
		bar:     progress.New(progress.WithGradient(string(theme.Primary), string(theme.Secondary))),
		spinner: sp,
		files:   files,
		cancel:  cancel,
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress events, key presses and animation frames.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if keymap.Matches(msg.String(), m.keys.Cancel) && !m.cancelled {
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-4, maxBarWidth), 10)
		m.help.Width = msg.Width
		return m, nil

	case messages.Progress:
		if i := msg.Current - 1; i >= 0 && i < len(m.files) {
			m.files[i].stage = msg.Stage
		}
		return m, m.bar.SetPercent(m.Fraction())

	case messages.BatchDone:
		m.done = true
		m.batch = msg.Batch
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		if b, ok := bar.(progress.Model); ok {
			m.bar = b
		}
		return m, cmd
	}
	return m, nil
}

// Fraction is the share of files that reached a terminal stage.
func (m ProgressModel) Fraction() float64 {
	if len(m.files) == 0 {
		return 0
	}
	finished := 0
	for _, f := range m.files {
		if f.stage.IsTerminal() {
			finished++
		}
	}
	return float64(finished) / float64(len(m.files))
}

// Result returns the batch outcome once BatchDone was received.
func (m ProgressModel) Result() (*domain.Batch, error) {
	return m.batch, m.err
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Processing %d file(s)", len(m.files))))
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")

	for _, f := range m.files {
		b.WriteString(m.row(f))
		b.WriteString("\n")
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(domain.UserMessage(m.err)))
		b.WriteString("\n")
	case m.cancelled:
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render("Cancelling..."))
		b.WriteString("\n")
	case !m.done:
		b.WriteString(m.styles.Help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ProgressModel) row(f fileRow) string {
	switch f.stage.Kind {
	case domain.StageComplete:
		return m.styles.Success.Render("✓ "+f.name) + m.styles.Stage.Render(f.stage.String())
	case domain.StageFailed:
		return m.styles.Error.Render("✗ "+f.name) + m.styles.Stage.Render(f.stage.String())
	case domain.StageQueued:
		return m.styles.Muted.Render("· " + f.name)
	default:
		return m.spinner.View() + " " + m.styles.Normal.Render(f.name) + m.styles.Stage.Render(f.stage.String())
	}
}

// RunBatch starts a batch on session and renders its progress until it ends.
// Extra options are passed to the Bubbletea program.
func RunBatch(
	ctx context.Context,
	session driving.Session,
	files []domain.SourceFile,
	opts ...tea.ProgramOption,
) (*domain.Batch, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}

	p := tea.NewProgram(NewProgressModel(names, cancel), opts...)

	go func() {
		batch, err := session.StartBatch(ctx, files, func(pr domain.Progress) {
			p.Send(messages.Progress{Progress: pr})
		})
		p.Send(messages.BatchDone{Batch: batch, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running progress view: %w", err)
	}
	m, ok := final.(ProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	return m.Result()
}
