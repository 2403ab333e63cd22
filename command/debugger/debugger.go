/*
 * S370 - Command reader.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package debugger is an interactive single-step console over a running
// scheduler, offered as an alternative to free-running the simulation to
// completion. It mirrors the shape of command/reader + command/parser from
// the mainframe simulator this project started from: a liner-backed
// prompt with history and tab completion dispatching into a small command
// table.
package debugger

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	"github.com/rcornwell/rrmem/emu/scheduler"
)

// cmd is one entry in the debugger's command table.
type cmd struct {
	Name    string
	Help    string
	Process func(s *Session, args []string) (quit bool)
}

var cmdList = []cmd{
	{Name: "step", Help: "run one scheduler-loop iteration", Process: cmdStep},
	{Name: "run", Help: "run to completion", Process: cmdRun},
	{Name: "queues", Help: "show queue occupancy", Process: cmdQueues},
	{Name: "dump", Help: "print the plain-text memory dump", Process: cmdDump},
	{Name: "inspect", Help: "spew.Sdump the allocator's block list", Process: cmdInspect},
	{Name: "quit", Help: "leave the debugger, the simulation keeps running to completion", Process: cmdQuit},
}

// Session couples a running scheduler to an output sink, so the debugger
// can be unit-tested without a real terminal.
type Session struct {
	Sched *scheduler.Scheduler
	Out   func(line string)
}

// Run starts the liner-backed console loop. It blocks until the user enters
// "quit" or "run", or aborts the prompt; stepping the simulation to its end
// does not leave the loop.
func Run(s *scheduler.Scheduler, emit func(line string)) {
	sess := &Session{Sched: s, Out: emit}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCmd)

	for {
		input, err := line.Prompt("rrmem> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("debugger: error reading line: " + err.Error())
			return
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		matched := false
		for _, c := range cmdList {
			if c.Name != fields[0] {
				continue
			}
			matched = true
			if c.Process(sess, fields[1:]) {
				return
			}
			break
		}
		if !matched {
			sess.Out(fmt.Sprintf("unknown command: %s", fields[0]))
		}
	}
}

func completeCmd(line string) []string {
	var matches []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.Name, line) {
			matches = append(matches, c.Name)
		}
	}
	slices.Sort(matches)
	return matches
}

func cmdStep(s *Session, _ []string) bool {
	if !s.Sched.Busy() {
		s.Out("simulation already terminated")
		return false
	}
	s.Sched.StepOnce()
	return false
}

// cmdRun drains the simulation to completion but leaves the closing
// "Total CPU time used" line to the caller, which prints it exactly once
// after the debugger session ends regardless of how it ended.
func cmdRun(s *Session, _ []string) bool {
	for s.Sched.Busy() {
		s.Sched.StepOnce()
	}
	return true
}

func cmdQueues(s *Session, _ []string) bool {
	newJobs, ready, ioWait := s.Sched.Queues()
	s.Out(fmt.Sprintf("new=%d ready=%d ioWait=%d clock=%d", newJobs, ready, ioWait, s.Sched.GlobalClock()))
	return false
}

func cmdDump(s *Session, _ []string) bool {
	for _, line := range s.Sched.Memory().Dump() {
		s.Out(line)
	}
	return false
}

// cmdInspect is deliberately distinct from cmdDump: it is a developer
// convenience, not part of the specified trace output, so it is the one
// place this codebase reaches for spew instead of the plain "addr : word"
// format.
func cmdInspect(s *Session, _ []string) bool {
	s.Out(spew.Sdump(s.Sched.Allocator().Blocks()))
	return false
}

func cmdQuit(s *Session, _ []string) bool {
	return true
}
