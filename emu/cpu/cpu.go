/*
 * S370 - Low level memory
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

// Package cpu interprets the four-opcode instruction set against a process's
// PCB and data region, base-relative, for up to one quantum at a time.
package cpu

import (
	"fmt"

	"github.com/rcornwell/rrmem/emu/arena"
	"github.com/rcornwell/rrmem/emu/pcb"
)

// Outcome tags how a Run call ended.
type Outcome int

const (
	Timeout Outcome = iota
	IOIssued
	Terminated
)

// IOWait describes an I/O-wait queue entry created by a Print instruction.
type IOWait struct {
	BaseAddress int
	EntryTime   int
	IOCycles    int
}

// TerminationReport carries the full PCB snapshot needed for the ten-line
// termination report. Run does not fill StartTime or EndTime; the
// scheduler supplies the timing for the summary line itself.
type TerminationReport struct {
	ProcessID       int
	State           int
	ProgramCounter  int
	InstructionBase int
	DataBase        int
	MemoryLimit     int
	CPUCyclesUsed   int
	RegisterValue   int
	MaxMemoryNeeded int
	MainMemoryBase  int
	StartTime       int
	EndTime         int
}

// Trace receives one diagnostic string per executed instruction and per
// simulated event raised while running; it is how the CPU reports the
// per-instruction "compute"/"stored"/"loaded"/etc. lines without importing
// the trace package directly.
type Trace func(line string)

// Run executes at most quantum cycles of the process based at base,
// updating its PCB in place, and returns how it stopped.
//
// ioWait and term are only populated when Outcome is IOIssued or
// Terminated respectively; globalClock is read and advanced in place since
// Compute/Store/Load all charge it as they run.
func Run(mem *arena.Arena, base, quantum int, globalClock *int, trace Trace) (outcome Outcome, ioWait IOWait, term TerminationReport) {
	processID := mem.Read(base + pcb.ProcessID)
	pc := mem.Read(base + pcb.ProgramCounter)
	instructionBase := mem.Read(base + pcb.InstructionBase)
	dataBase := mem.Read(base + pcb.DataBase)
	cpuCyclesUsed := mem.Read(base + pcb.CPUCyclesUsed)
	registerValue := mem.Read(base + pcb.RegisterValue)
	maxMemoryNeeded := mem.Read(base + pcb.MaxMemoryNeeded)

	mem.Write(base+pcb.State, pcb.Running)

	instructionSize := dataBase - instructionBase

	dataOffset := 0
	for i := 0; i < pc; i++ {
		op := mem.Read(instructionBase + i)
		dataOffset += footprintOf(op)
	}

	burstCycles := 0

	for pc < instructionSize && burstCycles < quantum {
		op := mem.Read(instructionBase + pc)

		switch op {
		case pcb.Compute:
			cycles := mem.Read(dataBase + dataOffset + 1)
			cpuCyclesUsed += cycles
			*globalClock += cycles
			burstCycles += cycles
			trace("compute")
			pc++
			dataOffset += 2

		case pcb.Print:
			ioCycles := mem.Read(dataBase + dataOffset)
			mem.Write(base+pcb.ProgramCounter, pc+1)
			mem.Write(base+pcb.CPUCyclesUsed, cpuCyclesUsed)
			mem.Write(base+pcb.RegisterValue, registerValue)
			mem.Write(base+pcb.State, pcb.IOWaiting)
			trace("print")
			trace(fmt.Sprintf("Process %d issued an IOInterrupt and moved to the IOWaitingQueue.", processID))
			return IOIssued, IOWait{BaseAddress: base, EntryTime: *globalClock, IOCycles: ioCycles}, TerminationReport{}

		case pcb.Store:
			value := mem.Read(dataBase + dataOffset)
			addressOffset := mem.Read(dataBase + dataOffset + 1)
			registerValue = value
			physical := instructionBase + addressOffset
			if physical >= instructionBase && physical < instructionBase+maxMemoryNeeded {
				mem.Write(physical, registerValue)
				trace("stored")
			} else {
				trace("store error!")
			}
			cpuCyclesUsed++
			*globalClock++
			burstCycles++
			pc++
			dataOffset += 2

		case pcb.Load:
			addressOffset := mem.Read(dataBase + dataOffset)
			physical := instructionBase + addressOffset
			registerValue = mem.Read(physical)
			if physical >= instructionBase && physical < instructionBase+maxMemoryNeeded {
				trace("loaded")
			} else {
				trace("load error!")
			}
			cpuCyclesUsed++
			*globalClock++
			burstCycles++
			pc++
			dataOffset++

		default:
			panic(fmt.Sprintf("cpu: unknown opcode %d at instruction %d of process %d", op, pc, processID))
		}

		if burstCycles >= quantum && pc < instructionSize {
			mem.Write(base+pcb.ProgramCounter, pc)
			mem.Write(base+pcb.CPUCyclesUsed, cpuCyclesUsed)
			mem.Write(base+pcb.RegisterValue, registerValue)
			mem.Write(base+pcb.State, pcb.Ready)
			trace(fmt.Sprintf("Process %d has a TimeOUT interrupt and is moved to the ReadyQueue.", processID))
			return Timeout, IOWait{}, TerminationReport{}
		}
	}

	sentinelPC := instructionBase - 1
	mem.Write(base+pcb.ProgramCounter, sentinelPC)
	mem.Write(base+pcb.CPUCyclesUsed, cpuCyclesUsed)
	mem.Write(base+pcb.RegisterValue, registerValue)
	mem.Write(base+pcb.State, pcb.Terminated)

	return Terminated, IOWait{}, TerminationReport{
		ProcessID:       processID,
		State:           pcb.Terminated,
		ProgramCounter:  sentinelPC,
		InstructionBase: instructionBase,
		DataBase:        dataBase,
		MemoryLimit:     mem.Read(base + pcb.MemoryLimit),
		CPUCyclesUsed:   cpuCyclesUsed,
		RegisterValue:   registerValue,
		MaxMemoryNeeded: maxMemoryNeeded,
		MainMemoryBase:  mem.Read(base + pcb.MainMemoryBase),
	}
}

// footprintOf returns the data-stream footprint of an opcode word read
// directly from the instruction region, used to reconstruct dataOffset
// from PC at the start of a quantum.
func footprintOf(op int) int {
	switch op {
	case pcb.Compute, pcb.Store:
		return 2
	case pcb.Print, pcb.Load:
		return 1
	default:
		panic(fmt.Sprintf("cpu: unknown opcode %d while reconstructing data offset", op))
	}
}
