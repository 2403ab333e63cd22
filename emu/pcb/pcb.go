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

// Package pcb defines the ten-word process control block header that lives
// at the start of every process's owned arena block, and the loader that
// materialises a job descriptor into that layout.
package pcb

import "github.com/rcornwell/rrmem/emu/arena"

// PCB header field offsets, relative to a process's base address.
const (
	ProcessID       = 0
	State           = 1
	ProgramCounter  = 2
	InstructionBase = 3
	DataBase        = 4
	MemoryLimit     = 5
	CPUCyclesUsed   = 6
	RegisterValue   = 7
	MaxMemoryNeeded = 8
	MainMemoryBase  = 9

	// HeaderSize is the fixed width of the PCB header in words.
	HeaderSize = 10
)

// Process states.
const (
	New = iota
	Ready
	Running
	Terminated
	IOWaiting
)

// Opcodes.
const (
	Compute = 1
	Print   = 2
	Store   = 3
	Load    = 4
)

// Instruction is one opcode plus its logical-stream operands, in
// declaration order. Only the fields relevant to Opcode are meaningful:
// Compute uses A,B; Print uses A; Store uses A,B; Load uses A.
type Instruction struct {
	Opcode int
	A      int
	B      int
}

// DataFootprint returns how many data-region words this instruction's
// operands occupy, per the opcode table in the specification.
func (in Instruction) DataFootprint() int {
	switch in.Opcode {
	case Compute, Store:
		return 2
	case Print, Load:
		return 1
	default:
		panic("pcb: unknown opcode in instruction stream")
	}
}

// Job is a job descriptor awaiting admission.
type Job struct {
	ProcessID       int
	MaxMemoryNeeded int
	Instructions    []Instruction
}

// TotalSize is the size of the arena block this job needs once admitted:
// the PCB header plus its instruction and data regions.
func (j Job) TotalSize() int {
	return HeaderSize + j.MaxMemoryNeeded
}

// LoadJob writes the PCB header, the instruction region, and the data region
// for job into mem starting at base, per the layout in the specification.
// The caller must already have reserved [base, base+job.TotalSize()) via
// the allocator.
func LoadJob(mem *arena.Arena, base int, job Job) {
	instructionBase := base + HeaderSize
	instructionSize := len(job.Instructions)
	dataBase := instructionBase + instructionSize

	mem.Write(base+ProcessID, job.ProcessID)
	mem.Write(base+State, Ready)
	mem.Write(base+ProgramCounter, 0)
	mem.Write(base+InstructionBase, instructionBase)
	mem.Write(base+DataBase, dataBase)
	mem.Write(base+MemoryLimit, job.MaxMemoryNeeded)
	mem.Write(base+CPUCyclesUsed, 0)
	mem.Write(base+RegisterValue, 0)
	mem.Write(base+MaxMemoryNeeded, job.MaxMemoryNeeded)
	mem.Write(base+MainMemoryBase, base)

	for i, in := range job.Instructions {
		mem.Write(instructionBase+i, in.Opcode)
	}

	offset := 0
	for _, in := range job.Instructions {
		switch in.Opcode {
		case Compute, Store:
			mem.Write(dataBase+offset, in.A)
			mem.Write(dataBase+offset+1, in.B)
			offset += 2
		case Print, Load:
			mem.Write(dataBase+offset, in.A)
			offset += 1
		}
	}
}

// StateName renders a process state the way the termination report and
// trace lines expect it.
func StateName(state int) string {
	switch state {
	case New:
		return "NEW"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Terminated:
		return "TERMINATED"
	case IOWaiting:
		return "IOWAITING"
	default:
		return "UNKNOWN"
	}
}
