// Package tui is an optional live view of memory occupancy and the three
// scheduler queues, built the way hejops-gone's cpu.Debug builds its
// bubbletea/lipgloss debugger: a tea.Model wrapping a pointer into the
// running simulation, advanced one scheduler step per keypress.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcornwell/rrmem/emu/allocator"
	"github.com/rcornwell/rrmem/emu/scheduler"
)

var (
	ownedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	freeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

type model struct {
	sched *scheduler.Scheduler
	trace []string
	done  bool
}

// Init performs no initial command; the scheduler is already constructed
// and its initial batch already admitted by the caller.
func (m model) Init() tea.Cmd {
	return nil
}

// Update steps the scheduler one dispatcher iteration per " " or "n"
// keypress, runs it to completion on "r", and quits on "q".
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "n":
		if m.sched.Busy() {
			m.sched.StepOnce()
		} else {
			m.done = true
		}

	case "r":
		for m.sched.Busy() {
			m.sched.StepOnce()
		}
		m.done = true
	}
	return m, nil
}

func (m model) memoryMap() string {
	blocks := m.sched.Allocator().Blocks()
	rows := make([]string, 0, len(blocks)+1)
	rows = append(rows, headerStyle.Render("start  size  owner"))
	for _, b := range blocks {
		row := fmt.Sprintf("%-6d %-5d %d", b.Start, b.Size, b.Owner)
		if b.Owner == allocator.Free {
			rows = append(rows, freeStyle.Render(row))
		} else {
			rows = append(rows, ownedStyle.Render(row))
		}
	}
	return strings.Join(rows, "\n")
}

func (m model) queues() string {
	newJobs, ready, ioWait := m.sched.Queues()
	return fmt.Sprintf(
		"clock: %d\nnew-job queue: %d\nready queue:   %d\nI/O-wait queue: %d",
		m.sched.GlobalClock(), newJobs, ready, ioWait,
	)
}

// View lays out the memory map beside the queue counters. Pressing space
// or "n" advances one dispatcher step, "r" free-runs to completion, "q"
// exits leaving the simulation state as it was.
func (m model) View() string {
	footer := "space/n: step   r: run   q: quit"
	if m.done {
		footer = "simulation complete   q: quit"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryMap(), "   ", m.queues()),
		"",
		footer,
	)
}

// Run starts the interactive memory/queue view over an already-constructed
// scheduler. It blocks until the user quits.
func Run(s *scheduler.Scheduler) error {
	_, err := tea.NewProgram(model{sched: s}).Run()
	return err
}
