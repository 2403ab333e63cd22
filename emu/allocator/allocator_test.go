package allocator

import (
	"testing"

	"github.com/rcornwell/rrmem/emu/arena"
)

func TestAllocateFirstFitAndSplit(t *testing.T) {
	a := New(40)
	base, ok := a.Allocate(1, 20)
	if !ok || base != 0 {
		t.Errorf("Allocate not correct got: base=%d ok=%v expected: base=0 ok=true", base, ok)
	}
	blocks := a.Blocks()
	if len(blocks) != 2 {
		t.Errorf("block count not correct got: %d expected: %d", len(blocks), 2)
	}
	if blocks[1].Owner != Free || blocks[1].Start != 20 || blocks[1].Size != 20 {
		t.Errorf("remainder block not correct got: %+v", blocks[1])
	}
}

func TestAllocateExactFitDoesNotSplit(t *testing.T) {
	a := New(10)
	base, ok := a.Allocate(1, 10)
	if !ok || base != 0 {
		t.Errorf("Allocate not correct got: base=%d ok=%v", base, ok)
	}
	if len(a.Blocks()) != 1 {
		t.Errorf("expected exact-fit allocation to leave a single block, got %d", len(a.Blocks()))
	}
}

func TestAllocateNoFitReturnsFalse(t *testing.T) {
	a := New(10)
	if _, ok := a.Allocate(1, 20); ok {
		t.Errorf("expected Allocate to fail for oversized request")
	}
}

func TestFreeClearsArenaAndMarksFree(t *testing.T) {
	a := New(20)
	base, _ := a.Allocate(1, 10)
	mem := arena.New(20)
	for i := base; i < base+10; i++ {
		mem.Write(i, 42)
	}
	a.Free(mem, 1)
	for i := base; i < base+10; i++ {
		if v := mem.Read(i); v != arena.Empty {
			t.Errorf("word %d not cleared got: %d", i, v)
		}
	}
	blocks := a.Blocks()
	if blocks[0].Owner != Free {
		t.Errorf("block not marked free: %+v", blocks[0])
	}
}

func TestFreeOfUnknownProcessPanics(t *testing.T) {
	a := New(10)
	mem := arena.New(10)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic freeing unknown process")
		}
	}()
	a.Free(mem, 99)
}

func TestCoalesceMergesAdjacentFreeBlocks(t *testing.T) {
	a := New(30)
	a.Allocate(1, 10)
	a.Allocate(2, 10)
	a.Allocate(3, 6)
	mem := arena.New(30)
	a.Free(mem, 2)
	if a.HasFreeBlockOfAtLeast(12) {
		t.Errorf("middle free block alone should not satisfy size 12")
	}
	a.Free(mem, 1)
	merged := a.Coalesce()
	if !merged {
		t.Errorf("expected coalesce to report a merge")
	}
	if !a.HasFreeBlockOfAtLeast(12) {
		t.Errorf("expected merged block to satisfy size 12")
	}
	a.CheckPartition()
}

func TestCoalesceNoAdjacentFreeBlocksReportsFalse(t *testing.T) {
	a := New(30)
	a.Allocate(1, 10)
	a.Allocate(2, 10)
	if a.Coalesce() {
		t.Errorf("expected no merge when only one free block exists")
	}
}

func TestPartitionInvariantHolds(t *testing.T) {
	a := New(30)
	a.Allocate(1, 10)
	a.Allocate(2, 10)
	a.CheckPartition()
}
