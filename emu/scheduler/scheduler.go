/*
 * S370 - Core S370 emulator loop.
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

// Package scheduler owns the new-job, ready and I/O-wait queues, the
// global clock, and the driver loop that ties the allocator, the loader
// and the CPU together until every job has terminated.
package scheduler

import (
	"fmt"

	"github.com/rcornwell/rrmem/emu/allocator"
	"github.com/rcornwell/rrmem/emu/arena"
	"github.com/rcornwell/rrmem/emu/cpu"
	"github.com/rcornwell/rrmem/emu/pcb"
)

// Emit receives one trace line at a time, in emission order.
type Emit func(line string)

// Scheduler drives the simulation: it is the sole owner of the arena, the
// free list, the three queues and the clock.
type Scheduler struct {
	mem   *arena.Arena
	alloc *allocator.Allocator

	quantum    int
	switchTime int

	newJobQueue []pcb.Job
	readyQueue  []int
	ioWaitQueue []cpu.IOWait

	globalClock      int
	totalCPUTime     int
	processStartTime map[int]int
	firstDispatch    map[int]bool

	terminated int

	emit Emit
}

// New constructs a scheduler over a freshly-initialised arena of the given
// size, with the given per-quantum cycle budget and context-switch cost,
// and the initial batch of jobs in new-job-queue (FIFO) order.
func New(memSize, quantum, switchTime int, jobs []pcb.Job, emit Emit) *Scheduler {
	s := &Scheduler{
		mem:              arena.New(memSize),
		alloc:            allocator.New(memSize),
		quantum:          quantum,
		switchTime:       switchTime,
		newJobQueue:      append([]pcb.Job(nil), jobs...),
		processStartTime: make(map[int]int),
		firstDispatch:    make(map[int]bool),
		emit:             emit,
	}
	return s
}

// Memory exposes the underlying arena, e.g. for the trace package's memory
// dump and for the interactive debugger.
func (s *Scheduler) Memory() *arena.Arena { return s.mem }

// Allocator exposes the free list, for the debugger and tests.
func (s *Scheduler) Allocator() *allocator.Allocator { return s.alloc }

// GlobalClock returns the current simulated clock value.
func (s *Scheduler) GlobalClock() int { return s.globalClock }

// Queues exposes read-only snapshots of queue occupancy, for the TUI.
func (s *Scheduler) Queues() (newJobs, ready, ioWait int) {
	return len(s.newJobQueue), len(s.readyQueue), len(s.ioWaitQueue)
}

// AdmitInitialBatch runs one admission pass over the whole new-job queue,
// the way the simulation's startup does before the first memory dump is
// taken. It is separated from Run so the caller can dump memory in between,
// per the output ordering in the specification.
func (s *Scheduler) AdmitInitialBatch() {
	s.admit()
}

// Run drives the scheduler loop until all three queues are empty, then
// charges the final trailing switch-time and returns the total simulated
// cycles used.
func (s *Scheduler) Run() int {
	for s.Busy() {
		s.StepOnce()
	}

	s.globalClock += s.switchTime
	return s.globalClock
}

// Busy reports whether any of the three queues still holds work, i.e.
// whether a further StepOnce would do anything other than the final
// trailing switch-time charge Run applies on exit.
func (s *Scheduler) Busy() bool {
	return len(s.readyQueue) > 0 || len(s.ioWaitQueue) > 0 || len(s.newJobQueue) > 0
}

// StepOnce runs exactly one iteration of the dispatcher's priority order
// (ready, then I/O-wait, then new-job), charging one switchTime. It is the
// unit the interactive debugger's "step" command drives one at a time;
// Run is just this in a loop with the final trailing charge appended.
func (s *Scheduler) StepOnce() {
	switch {
	case len(s.readyQueue) > 0:
		s.globalClock += s.switchTime
		base := s.dequeueReady()
		processID := s.mem.Read(base + pcb.ProcessID)
		s.emit(fmt.Sprintf("Process %d has moved to Running.", processID))
		s.dispatch(base)
		s.checkIOWaitingQueue()

	case len(s.ioWaitQueue) > 0:
		s.globalClock += s.switchTime
		s.checkIOWaitingQueue()

	case len(s.newJobQueue) > 0:
		s.globalClock += s.switchTime
		s.admit()
	}
}

// dispatch runs one quantum of the process at base and reacts to its
// outcome: timeout re-enqueues it on the ready queue, I/O issue pushes an
// I/O-wait entry, and termination frees its
// memory and re-triggers admission.
func (s *Scheduler) dispatch(base int) {
	processID := s.mem.Read(base + pcb.ProcessID)
	if !s.firstDispatch[processID] {
		s.firstDispatch[processID] = true
		s.processStartTime[processID] = s.globalClock
	}

	outcome, ioWait, term := cpu.Run(s.mem, base, s.quantum, &s.globalClock, cpu.Trace(s.emit))

	switch outcome {
	case cpu.Timeout:
		s.readyQueue = append(s.readyQueue, base)

	case cpu.IOIssued:
		s.ioWaitQueue = append(s.ioWaitQueue, ioWait)

	case cpu.Terminated:
		s.totalCPUTime += term.CPUCyclesUsed
		s.terminated++
		startTime := s.processStartTime[processID]
		endTime := s.globalClock
		s.emitTerminationReport(term, startTime, endTime)

		block, ok := s.alloc.FindOwned(processID)
		if !ok {
			panic(fmt.Sprintf("scheduler: terminated process %d owns no block", processID))
		}
		s.alloc.Free(s.mem, processID)
		s.emit(fmt.Sprintf("Process %d terminated and released memory from %d to %d.",
			processID, block.Start, block.Start+block.Size-1))

		s.admit()
	}
}

// emitTerminationReport prints the ten PCB-field lines, the original's
// redundant eleventh "Total CPU Cycles Consumed" line, and the summary
// line, all per the specification's §4.4/§6 and the original source's
// trace format.
func (s *Scheduler) emitTerminationReport(term cpu.TerminationReport, startTime, endTime int) {
	s.emit(fmt.Sprintf("Process ID: %d", term.ProcessID))
	s.emit(fmt.Sprintf("State: %s", pcb.StateName(term.State)))
	s.emit(fmt.Sprintf("Program Counter: %d", term.ProgramCounter))
	s.emit(fmt.Sprintf("Instruction Base: %d", term.InstructionBase))
	s.emit(fmt.Sprintf("Data Base: %d", term.DataBase))
	s.emit(fmt.Sprintf("Memory Limit: %d", term.MemoryLimit))
	s.emit(fmt.Sprintf("CPU Cycles Used: %d", term.CPUCyclesUsed))
	s.emit(fmt.Sprintf("Register Value: %d", term.RegisterValue))
	s.emit(fmt.Sprintf("Max Memory Needed: %d", term.MaxMemoryNeeded))
	s.emit(fmt.Sprintf("Main Memory Base: %d", term.MainMemoryBase))
	s.emit(fmt.Sprintf("Total CPU Cycles Consumed: %d", endTime-startTime))
	s.emit(fmt.Sprintf("Process %d terminated. Entered running state at: %d. Terminated at: %d. Total Execution Time: %d.",
		term.ProcessID, startTime, endTime, endTime-startTime))
}

// checkIOWaitingQueue scans every I/O-wait entry once; entries whose
// ioCycles have elapsed move to the ready queue, in original relative
// order among the entries that remain.
func (s *Scheduler) checkIOWaitingQueue() {
	still := s.ioWaitQueue[:0]
	for _, entry := range s.ioWaitQueue {
		if s.globalClock-entry.EntryTime >= entry.IOCycles {
			processID := s.mem.Read(entry.BaseAddress + pcb.ProcessID)
			s.mem.Write(entry.BaseAddress+pcb.State, pcb.Ready)
			s.readyQueue = append(s.readyQueue, entry.BaseAddress)
			s.emit(fmt.Sprintf("Process %d completed I/O and is moved to the ReadyQueue.", processID))
		} else {
			still = append(still, entry)
		}
	}
	s.ioWaitQueue = still
}

// admit attempts to place the job at the head of the new-job queue,
// retrying once via coalesce on failure; it never skips past the head, so
// FIFO admission order is preserved.
func (s *Scheduler) admit() {
	for len(s.newJobQueue) > 0 {
		job := s.newJobQueue[0]
		required := job.TotalSize()

		base, ok := s.alloc.Allocate(job.ProcessID, required)
		if !ok {
			s.emit(fmt.Sprintf("Insufficient memory for Process %d. Attempting memory coalescing.", job.ProcessID))
			coalesced := s.alloc.Coalesce()
			if coalesced && s.alloc.HasFreeBlockOfAtLeast(required) {
				s.emit(fmt.Sprintf("Memory coalesced. Process %d can now be loaded.", job.ProcessID))
				base, ok = s.alloc.Allocate(job.ProcessID, required)
			}
			if !ok {
				s.emit(fmt.Sprintf("Process %d waiting in NewJobQueue due to insufficient memory.", job.ProcessID))
				return
			}
		}

		pcb.LoadJob(s.mem, base, job)
		s.readyQueue = append(s.readyQueue, base)
		s.emit(fmt.Sprintf("Process %d loaded into memory at address %d with size %d.", job.ProcessID, base, required))

		s.newJobQueue = s.newJobQueue[1:]
	}
}

func (s *Scheduler) dequeueReady() int {
	base := s.readyQueue[0]
	s.readyQueue = s.readyQueue[1:]
	return base
}
