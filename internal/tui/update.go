package tui

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakone/internal/models"
	"github.com/julianstephens/streakone/internal/repository"
	"github.com/julianstephens/streakone/internal/streakcalc"
	"github.com/julianstephens/streakone/internal/tui/components/streaklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, help and status take four lines; docStyle pads by one
		// line and two columns on each side
		h, v := docStyle.GetFrameSize()
		m.streakList.SetSize(msg.Width-h, msg.Height-v-4)
		m.detail.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m, m.updateForm(msg)
	case StateConfirmDelete:
		return m, m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleListMessage(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = SessionState((int(m.state) + 1) % len(tabs))
			m.syncDetail()
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = SessionState((int(m.state) - 1 + len(tabs)) % len(tabs))
			m.syncDetail()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateStreaks:
		m.streakList, cmd = m.streakList.Update(msg)
		m.syncDetail()
	case StateStats:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

// handleListMessage reacts to the actions emitted by the streak list.
func (m *Model) handleListMessage(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case streaklist.AddStreakMsg:
		m.streakForm = &StreakFormModel{}
		m.formKind = formAdd
		m.editingID = ""
		m.form = NewAddForm(m.streakForm)
		m.state = StateForm
		return true, m.form.Init()

	case streaklist.EditStreakMsg:
		return true, m.openForm(formRename, msg.Streak, NewRenameForm)

	case streaklist.SetTargetMsg:
		return true, m.openForm(formTarget, msg.Streak, NewTargetForm)

	case streaklist.SetReminderMsg:
		return true, m.openForm(formReminder, msg.Streak, NewReminderForm)

	case streaklist.MarkDoneMsg:
		m.markDone(msg.ID)
		return true, nil

	case streaklist.DeleteStreakMsg:
		m.streakToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m *Model) openForm(kind formKind, s models.Streak, build func(*StreakFormModel) *huh.Form) tea.Cmd {
	fm := &StreakFormModel{
		Name:   s.Name,
		Remind: s.NotificationEnabled == nil || *s.NotificationEnabled,
		Time:   m.reminderTime,
	}
	if t := s.Target(); t > 0 {
		fm.Target = strconv.Itoa(t)
	}
	if s.NotificationTime != nil && *s.NotificationTime != "" {
		fm.Time = *s.NotificationTime
	}
	m.streakForm = fm
	m.formKind = kind
	m.editingID = s.ID
	m.form = build(fm)
	m.state = StateForm
	return m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateStreaks
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.applyForm() {
			m.reload()
			m.state = StateStreaks
		} else {
			// stay on the form so the user can retry or cancel with esc
			m.form.State = huh.StateNormal
		}
	case huh.StateAborted:
		m.state = StateStreaks
	}
	return cmd
}

func (m *Model) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.deleteStreak(m.streakToDeleteID)
		m.streakToDeleteID = ""
		m.state = StateStreaks
	case key.Matches(keyMsg, m.keys.No):
		m.streakToDeleteID = ""
		m.state = StateStreaks
	}
	return nil
}

func (m *Model) markDone(id string) {
	ctx := context.Background()
	updated, milestone, err := m.repo.MarkDone(ctx, id, m.now())
	switch {
	case errors.Is(err, repository.ErrAlreadyDone):
		if s, ok := m.find(id); ok {
			m.setStatus(s.Name + " is already done today")
		}
		return
	case err != nil:
		m.setError("mark done", err)
		return
	}

	if milestone != nil {
		m.setStatus(streakcalc.MilestoneMessage(*milestone))
	} else {
		m.setStatus("✓ " + updated.Name + " done")
	}
	if updated.RemindersOn() {
		m.syncReminder(updated)
	}
	m.reload()
}

func (m *Model) deleteStreak(id string) {
	ctx := context.Background()
	s, _ := m.find(id)
	if err := m.repo.DeleteStreak(ctx, id); err != nil {
		m.setError("delete streak", err)
		return
	}
	m.setStatus("Deleted " + s.Name)
	if m.reminders != nil {
		if err := m.reminders.Cancel(ctx, id); err != nil {
			m.setError("cancel reminder", err)
		}
	}
	m.reload()
}
