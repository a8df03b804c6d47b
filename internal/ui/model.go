package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/temirov/branchwipe/internal/branches"
	"github.com/temirov/branchwipe/internal/session"
)

const (
	sessionMissingMessageConstant    = "session not configured"
	defaultPollIntervalConstant      = 16 * time.Millisecond
	defaultProgressWidthConstant     = 40
	maximumProgressWidthConstant     = 80
	progressHorizontalMarginConstant = 4
	linesPerBranchConstant           = 2
	reservedLinesConstant            = 8
	headerTemplateConstant           = "branchwipe · %d branches · %d selected"
	deletingStatusTemplateConstant   = "Processed %d of %d selected branches"
	dryRunSuffixConstant             = " (dry run)"
	cursorMarkerConstant             = "›"
	blankMarkerConstant              = " "
	selectedMarkerConstant           = "✗"
	unselectedMarkerConstant         = "·"
	rowTemplateConstant              = "%s %s %s"
	titleSeparatorConstant           = "  "
	bylineIndentConstant             = "    "
	bylineSeparatorConstant          = " · "
	emailTemplateConstant            = "<%s>"
	upstreamTemplateConstant         = "↑ %s"
	moreAboveTemplateConstant        = "  ↑ %d more"
	moreBelowTemplateConstant        = "  ↓ %d more"
	lineSeparatorConstant            = "\n"
	phaseChangedMessageConstant      = "Session phase changed"
	logFieldPhaseConstant            = "phase"
	logFieldSelectedCountConstant    = "selected_count"
)

// ErrSessionNotConfigured indicates the model was created without a session.
var ErrSessionNotConfigured = errors.New(sessionMissingMessageConstant)

type tickMsg time.Time

// Options configure the interactive model.
type Options struct {
	PollInterval time.Duration
	DryRun       bool
}

// Model renders a session and feeds it key presses and deletion ticks.
type Model struct {
	executionContext context.Context
	session          *session.Session
	logger           *zap.Logger
	keys             keyMap
	help             help.Model
	progress         progress.Model
	styles           styles
	pollInterval     time.Duration
	dryRun           bool
	width            int
	height           int
	lastPhase        session.Phase
}

// NewModel constructs a Model around an active session.
func NewModel(executionContext context.Context, activeSession *session.Session, logger *zap.Logger, options Options) (*Model, error) {
	if activeSession == nil {
		return nil, ErrSessionNotConfigured
	}
	if executionContext == nil {
		executionContext = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pollInterval := options.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollIntervalConstant
	}

	helpModel := help.New()
	helpModel.ShowAll = true

	return &Model{
		executionContext: executionContext,
		session:          activeSession,
		logger:           logger,
		keys:             newKeyMap(),
		help:             helpModel,
		progress:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultProgressWidthConstant)),
		styles:           newStyles(),
		pollInterval:     pollInterval,
		dryRun:           options.DryRun,
		lastPhase:        activeSession.Phase(),
	}, nil
}

// Session exposes the session driven by the model.
func (model *Model) Session() *session.Session {
	return model.session
}

// Init starts the tick loop.
func (model *Model) Init() tea.Cmd {
	return model.tick()
}

// Update dispatches key presses while browsing and performs one deletion step per tick while deleting.
func (model *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tickMsg:
		return model.handleTick()
	case tea.KeyMsg:
		return model.handleKey(typedMessage)
	case tea.WindowSizeMsg:
		model.width = typedMessage.Width
		model.height = typedMessage.Height
		model.help.Width = typedMessage.Width
		model.progress.Width = clampProgressWidth(typedMessage.Width)
	}
	return model, nil
}

func (model *Model) handleTick() (tea.Model, tea.Cmd) {
	switch model.session.Phase() {
	case session.PhaseDone:
		return model, tea.Quit
	case session.PhaseDeleting:
		model.session.Step(model.executionContext)
		model.observePhase()
	}
	return model, model.tick()
}

func (model *Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.session.Phase() != session.PhaseBrowsing {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Down):
		model.session.MoveDown()
	case key.Matches(message, model.keys.Up):
		model.session.MoveUp()
	case key.Matches(message, model.keys.Toggle):
		model.session.ToggleSelection()
	case key.Matches(message, model.keys.Confirm):
		model.session.Confirm()
	case key.Matches(message, model.keys.Quit):
		model.session.Quit()
	}

	model.observePhase()
	if model.session.Phase() == session.PhaseDone {
		return model, tea.Quit
	}
	return model, nil
}

func (model *Model) observePhase() {
	currentPhase := model.session.Phase()
	if currentPhase == model.lastPhase {
		return
	}
	model.lastPhase = currentPhase
	model.keys.setEnabled(currentPhase == session.PhaseBrowsing)
	model.logger.Debug(
		phaseChangedMessageConstant,
		zap.String(logFieldPhaseConstant, currentPhase.String()),
		zap.Int(logFieldSelectedCountConstant, model.session.SelectedCount()),
	)
}

func (model *Model) tick() tea.Cmd {
	return tea.Tick(model.pollInterval, func(moment time.Time) tea.Msg {
		return tickMsg(moment)
	})
}

// View renders the branch list, the progress bar while deleting and the key help.
func (model *Model) View() string {
	branchList := model.session.Branches()
	sections := []string{
		model.styles.header.Render(fmt.Sprintf(headerTemplateConstant, len(branchList), model.session.SelectedCount())),
		"",
		model.renderBranches(branchList),
		"",
	}

	if model.session.Phase() == session.PhaseDeleting {
		processedCount := len(model.session.Deleted()) + len(model.session.Failures())
		status := fmt.Sprintf(deletingStatusTemplateConstant, processedCount, processedCount+model.session.SelectedCount())
		if model.dryRun {
			status += dryRunSuffixConstant
		}
		sections = append(sections, model.styles.status.Render(status), model.progress.ViewAs(model.session.Progress()))
	} else {
		sections = append(sections, model.help.View(model.keys))
	}

	return strings.Join(sections, lineSeparatorConstant) + lineSeparatorConstant
}

func (model *Model) renderBranches(branchList []branches.Branch) string {
	firstVisible, lastVisible := model.visibleRange(len(branchList))
	lines := make([]string, 0, (lastVisible-firstVisible)*linesPerBranchConstant+2)

	if firstVisible > 0 {
		lines = append(lines, model.styles.byline.Render(fmt.Sprintf(moreAboveTemplateConstant, firstVisible)))
	}

	for index := firstVisible; index < lastVisible; index++ {
		lines = append(lines, model.renderBranch(branchList[index], index)...)
	}

	if lastVisible < len(branchList) {
		lines = append(lines, model.styles.byline.Render(fmt.Sprintf(moreBelowTemplateConstant, len(branchList)-lastVisible)))
	}

	return strings.Join(lines, lineSeparatorConstant)
}

func (model *Model) renderBranch(branch branches.Branch, index int) []string {
	highlighted := index == model.session.Cursor() && model.session.Phase() == session.PhaseBrowsing
	selected := model.session.IsSelected(index)

	cursorMarker := blankMarkerConstant
	if highlighted {
		cursorMarker = cursorMarkerConstant
	}
	selectionMarker := unselectedMarkerConstant
	if selected {
		selectionMarker = selectedMarkerConstant
	}

	rowStyle := model.styles.rowStyle(highlighted, selected)
	heading := rowStyle.Render(fmt.Sprintf(rowTemplateConstant, cursorMarker, selectionMarker, branch.Name))
	if len(branch.Title) > 0 {
		heading += titleSeparatorConstant + model.styles.title.Render(branch.Title)
	}

	return []string{heading, model.renderByline(branch)}
}

func (model *Model) renderByline(branch branches.Branch) string {
	parts := make([]string, 0, 4)
	for _, value := range []string{branch.Date, branch.Author} {
		if len(value) > 0 {
			parts = append(parts, value)
		}
	}
	if len(branch.Email) > 0 {
		parts = append(parts, fmt.Sprintf(emailTemplateConstant, branch.Email))
	}
	if branch.HasUpstream() {
		parts = append(parts, fmt.Sprintf(upstreamTemplateConstant, branch.Remote))
	}

	byline := model.styles.byline.Render(strings.Join(parts, bylineSeparatorConstant))
	if model.width <= 0 {
		return bylineIndentConstant + byline
	}
	return lipgloss.PlaceHorizontal(model.width, lipgloss.Right, byline)
}

// visibleRange keeps the cursor on screen when the terminal is shorter than the list.
func (model *Model) visibleRange(branchCount int) (int, int) {
	if model.height <= 0 {
		return 0, branchCount
	}
	capacity := (model.height - reservedLinesConstant) / linesPerBranchConstant
	if capacity < 1 {
		capacity = 1
	}
	if branchCount <= capacity {
		return 0, branchCount
	}

	firstVisible := model.session.Cursor() - capacity/2
	if firstVisible < 0 {
		firstVisible = 0
	}
	if firstVisible+capacity > branchCount {
		firstVisible = branchCount - capacity
	}
	return firstVisible, firstVisible + capacity
}

func clampProgressWidth(terminalWidth int) int {
	width := terminalWidth - progressHorizontalMarginConstant
	if width > maximumProgressWidthConstant {
		return maximumProgressWidthConstant
	}
	if width < 1 {
		return defaultProgressWidthConstant
	}
	return width
}
