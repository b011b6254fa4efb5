package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakone/internal/constants"
	"github.com/julianstephens/streakone/internal/logger"
	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/repository"
	"github.com/julianstephens/streakone/internal/scheduler"
	"github.com/julianstephens/streakone/internal/tui/components/detail"
	"github.com/julianstephens/streakone/internal/tui/components/streaklist"
	"github.com/julianstephens/streakone/internal/validation"
)

type SessionState int

const (
	StateStreaks SessionState = iota
	StateStats
	StateForm
	StateConfirmDelete
)

// tabs are the states reachable with tab / shift+tab.
var tabs = []string{"Streaks", "Stats"}

type formKind int

const (
	formAdd formKind = iota
	formRename
	formTarget
	formReminder
)

// StreakFormModel backs every huh form; each form binds the fields it shows.
type StreakFormModel struct {
	Name   string
	Target string
	Color  string
	Remind bool
	Time   string
}

type Options struct {
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
	// ReminderTime prefills the reminder form. Empty uses 09:00.
	ReminderTime string
}

type Model struct {
	repo         *repository.Repository
	reminders    scheduler.ReminderScheduler
	now          func() time.Time
	reminderTime string

	state      SessionState
	keys       KeyMap
	help       help.Model
	streakList streaklist.Model
	detail     detail.Model

	form       *huh.Form
	formKind   formKind
	streakForm *StreakFormModel
	editingID  string

	streaks           []models.Streak
	streakToDeleteID  string
	status            string
	statusIsError     bool
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(repo *repository.Repository, reminders scheduler.ReminderScheduler, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ReminderTime == "" {
		opts.ReminderTime = constants.DefaultReminderTime
	}

	m := Model{
		repo:         repo,
		reminders:    reminders,
		now:          opts.Now,
		reminderTime: opts.ReminderTime,
		state:        StateStreaks,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		streakList:   streaklist.New(0, 0),
		detail:       detail.New(0, 0),
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateStreaks {
		lk := m.streakList.Keys()
		keys = append(keys, lk.Add, lk.Done, lk.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateStreaks {
		lk := m.streakList.Keys()
		actions = []key.Binding{lk.Add, lk.Done, lk.Edit, lk.Target, lk.Reminder, lk.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload reads the collection, refreshes every cached streak for today and
// pushes the result into the components.
func (m *Model) reload() {
	loaded := m.repo.Load(context.Background())
	m.streaks = make([]models.Streak, len(loaded))
	for i, s := range loaded {
		m.streaks[i] = m.repo.Refresh(s)
	}
	m.streakList.SetStreaks(m.streaks, m.now())
	m.syncDetail()
	m.updateValidationStatus(loaded)
}

func (m *Model) syncDetail() {
	s, ok := m.streakList.Selected()
	if !ok {
		m.detail.SetStreak(nil, m.now())
		return
	}
	m.detail.SetStreak(&s, m.now())
}

// updateValidationStatus flags structural problems in the stored data.
// Stale counts are ignored; the TUI always shows refreshed values.
func (m *Model) updateValidationStatus(streaks []models.Streak) {
	result := validation.CheckCollection(streaks, m.now())
	n := 0
	for _, c := range result.Conflicts {
		if c.Type != validation.ConflictStaleStreak {
			n++
		}
	}
	if n > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'streakone doctor'", n)
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(action string, err error) {
	logger.Warn("TUI action failed", "action", action, "error", err)
	m.status = fmt.Sprintf("Failed to %s: %v", action, err)
	m.statusIsError = true
}

// syncReminder applies the reminder settings of s; failures only show in
// the status line.
func (m *Model) syncReminder(s models.Streak) {
	if m.reminders == nil {
		return
	}
	if err := scheduler.Apply(context.Background(), m.reminders, s); err != nil {
		m.setError("update reminder", err)
	}
}

func (m Model) find(id string) (models.Streak, bool) {
	for _, s := range m.streaks {
		if s.ID == id {
			return s, true
		}
	}
	return models.Streak{}, false
}
