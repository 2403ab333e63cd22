package pcb

import (
	"testing"

	"github.com/rcornwell/rrmem/emu/arena"
)

func TestDataFootprint(t *testing.T) {
	cases := []struct {
		in   Instruction
		want int
	}{
		{Instruction{Opcode: Compute}, 2},
		{Instruction{Opcode: Store}, 2},
		{Instruction{Opcode: Print}, 1},
		{Instruction{Opcode: Load}, 1},
	}
	for _, c := range cases {
		if got := c.in.DataFootprint(); got != c.want {
			t.Errorf("DataFootprint(%d) not correct got: %d expected: %d", c.in.Opcode, got, c.want)
		}
	}
}

func TestLoadWritesHeaderAndRegions(t *testing.T) {
	job := Job{
		ProcessID:       1,
		MaxMemoryNeeded: 10,
		Instructions: []Instruction{
			{Opcode: Compute, A: 5, B: 7},
		},
	}
	mem := arena.New(40)
	base := 0
	LoadJob(mem, base, job)

	if v := mem.Read(base + ProcessID); v != 1 {
		t.Errorf("ProcessID not correct got: %d expected: %d", v, 1)
	}
	if v := mem.Read(base + State); v != Ready {
		t.Errorf("State not correct got: %d expected: %d", v, Ready)
	}
	if v := mem.Read(base + InstructionBase); v != base+HeaderSize {
		t.Errorf("InstructionBase not correct got: %d expected: %d", v, base+HeaderSize)
	}
	dataBase := base + HeaderSize + 1
	if v := mem.Read(base + DataBase); v != dataBase {
		t.Errorf("DataBase not correct got: %d expected: %d", v, dataBase)
	}
	if v := mem.Read(base + MaxMemoryNeeded); v != 10 {
		t.Errorf("MaxMemoryNeeded not correct got: %d expected: %d", v, 10)
	}
	if v := mem.Read(base + MainMemoryBase); v != base {
		t.Errorf("MainMemoryBase not correct got: %d expected: %d", v, base)
	}
	if v := mem.Read(base + HeaderSize); v != Compute {
		t.Errorf("instruction word not correct got: %d expected: %d", v, Compute)
	}
	if v := mem.Read(dataBase); v != 5 {
		t.Errorf("data word 0 not correct got: %d expected: %d", v, 5)
	}
	if v := mem.Read(dataBase + 1); v != 7 {
		t.Errorf("data word 1 not correct got: %d expected: %d", v, 7)
	}
}

func TestLoadMultiInstructionDataIsContiguous(t *testing.T) {
	job := Job{
		ProcessID:       2,
		MaxMemoryNeeded: 20,
		Instructions: []Instruction{
			{Opcode: Print, A: 3},
			{Opcode: Compute, A: 1, B: 2},
		},
	}
	mem := arena.New(40)
	base := 0
	LoadJob(mem, base, job)

	instructionBase := base + HeaderSize
	dataBase := instructionBase + 2
	if v := mem.Read(instructionBase); v != Print {
		t.Errorf("instruction 0 not correct got: %d expected: %d", v, Print)
	}
	if v := mem.Read(instructionBase + 1); v != Compute {
		t.Errorf("instruction 1 not correct got: %d expected: %d", v, Compute)
	}
	if v := mem.Read(dataBase); v != 3 {
		t.Errorf("Print ioCycles operand not correct got: %d expected: %d", v, 3)
	}
	if v := mem.Read(dataBase + 1); v != 1 {
		t.Errorf("Compute iterations operand not correct got: %d expected: %d", v, 1)
	}
	if v := mem.Read(dataBase + 2); v != 2 {
		t.Errorf("Compute cycles operand not correct got: %d expected: %d", v, 2)
	}
}
