package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/streakcalc"
)

const barWidth = 30

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows statistics, goal progress and milestones for one streak.
type Model struct {
	viewport viewport.Model
	Streak   *models.Streak
	now      time.Time
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Streak == nil {
		return "No streak selected."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetStreak shows s as of now. A nil s clears the view.
func (m *Model) SetStreak(s *models.Streak, now time.Time) {
	m.Streak = s
	m.now = now
	m.Render()
}

func (m *Model) Render() {
	if m.Streak == nil {
		m.viewport.SetContent("No streak selected.")
		return
	}
	m.viewport.SetContent(Content(*m.Streak, m.now))
}

// Content renders the detail text for s.
func Content(s models.Streak, now time.Time) string {
	stats := streakcalc.StatsAt(s.DoneDates, now)
	accent := lipgloss.Color("205")
	if s.Color != nil {
		accent = lipgloss.Color(*s.Color)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(accent).Bold(true).Render(s.Name))
	b.WriteString("\n\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}
	row("Current streak", fmt.Sprintf("🔥 %d", stats.CurrentStreak))
	row("Longest streak", fmt.Sprintf("%d", stats.LongestStreak))
	row("Total days", fmt.Sprintf("%d", stats.TotalDays))
	row("Last 30 days", fmt.Sprintf("%d%%", stats.CompletionRate))

	if t := s.Target(); t > 0 {
		progress := streakcalc.CalculateProgress(stats.CurrentStreak, t)
		b.WriteString("\n")
		row("Goal", fmt.Sprintf("%d/%d days", stats.CurrentStreak, t))
		fmt.Fprintf(&b, "%s %s %d%%\n", labelStyle.Render(""), bar(progress, accent), progress)
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(""),
			mutedStyle.Render(streakcalc.MotivationMessage(progress, streakcalc.DaysLeft(stats.CurrentStreak, t))))
	}

	b.WriteString("\nMilestones\n")
	for _, ms := range streakcalc.DefaultMilestones {
		line := fmt.Sprintf("%s %-8s %4d days", ms.Emoji, ms.Name, ms.Days)
		if stats.CurrentStreak >= ms.Days {
			b.WriteString("  ✓ " + lipgloss.NewStyle().Foreground(lipgloss.Color(ms.Color)).Render(line) + "\n")
		} else {
			b.WriteString("    " + mutedStyle.Render(line) + "\n")
		}
	}
	if next, ok := streakcalc.GetNextMilestone(stats.CurrentStreak); ok {
		fmt.Fprintf(&b, "\n%s\n", mutedStyle.Render(fmt.Sprintf("%d more to %s", next.Days-stats.CurrentStreak, next.Name)))
	}

	if s.RemindersOn() {
		fmt.Fprintf(&b, "\n⏰ Daily reminder at %s\n", *s.NotificationTime)
	}
	return b.String()
}

func bar(percent int, color lipgloss.Color) string {
	filled := percent * barWidth / 100
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}
