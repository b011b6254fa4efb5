package streaklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

type AddStreakMsg struct{}

type MarkDoneMsg struct {
	ID string
}

type EditStreakMsg struct {
	Streak models.Streak
}

type SetTargetMsg struct {
	Streak models.Streak
}

type SetReminderMsg struct {
	Streak models.Streak
}

type DeleteStreakMsg struct {
	ID string
}

type Item struct {
	Streak    models.Streak
	DoneToday bool
}

func (i Item) Title() string {
	title := fmt.Sprintf("🔥 %d  %s", i.Streak.Streak, i.Streak.Name)
	if i.DoneToday {
		title += "  ✓"
	}
	return title
}

func (i Item) Description() string {
	var parts []string
	if t := i.Streak.Target(); t > 0 {
		parts = append(parts, fmt.Sprintf("goal %d/%d (%d%%)", i.Streak.Streak, t, streakcalc.CalculateProgress(i.Streak.Streak, t)))
	}
	if m, ok := streakcalc.GetCurrentMilestone(i.Streak.Streak); ok {
		parts = append(parts, m.Emoji+" "+m.Name)
	}
	if i.Streak.RemindersOn() {
		parts = append(parts, "⏰ "+*i.Streak.NotificationTime)
	}
	if len(parts) == 0 {
		return "no goal"
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Streak.Name }

type KeyMap struct {
	Add      key.Binding
	Done     key.Binding
	Edit     key.Binding
	Target   key.Binding
	Reminder key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Done: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "done today"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Target: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "goal"),
		),
		Reminder: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reminder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Streaks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Edit, keys.Target, keys.Reminder, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetStreaks replaces the list contents, marking the streaks done on the
// day of now.
func (m *Model) SetStreaks(streaks []models.Streak, now time.Time) {
	items := make([]list.Item, len(streaks))
	for i, s := range streaks {
		items[i] = Item{Streak: s, DoneToday: streakcalc.ContainsDay(s.DoneDates, now)}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted streak.
func (m Model) Selected() (models.Streak, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Streak{}, false
	}
	return i.Streak, true
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddStreakMsg{} }
		}
		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Done):
				return m, func() tea.Msg { return MarkDoneMsg{ID: i.Streak.ID} }
			case key.Matches(msg, m.keys.Edit):
				return m, func() tea.Msg { return EditStreakMsg{Streak: i.Streak} }
			case key.Matches(msg, m.keys.Target):
				return m, func() tea.Msg { return SetTargetMsg{Streak: i.Streak} }
			case key.Matches(msg, m.keys.Reminder):
				return m, func() tea.Msg { return SetReminderMsg{Streak: i.Streak} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteStreakMsg{ID: i.Streak.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No streaks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
