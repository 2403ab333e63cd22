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

// Package allocator implements first-fit contiguous allocation over a
// flat arena, with block splitting on allocate and lazy coalescing of
// adjacent free blocks.
package allocator

import (
	"fmt"

	"github.com/rcornwell/rrmem/emu/arena"
)

// Free marks a block's Owner field as unowned.
const Free = -1

// Block is one contiguous run of the arena, either owned by a process or
// free.
type Block struct {
	Owner int // Free, or a processID
	Start int
	Size  int
}

// Allocator owns an ordered list of blocks partitioning [0, limit).
type Allocator struct {
	blocks []Block
	limit  int
}

// New returns an allocator covering [0, limit) as a single free block.
func New(limit int) *Allocator {
	return &Allocator{
		blocks: []Block{{Owner: Free, Start: 0, Size: limit}},
		limit:  limit,
	}
}

// Blocks returns the current block list in ascending Start order. Callers
// must not mutate the returned slice.
func (a *Allocator) Blocks() []Block {
	return a.blocks
}

// Allocate finds the first free block of size >= requiredSize, splits off
// the remainder if any, and returns the base address of the new owned
// block. ok is false if no block is large enough.
func (a *Allocator) Allocate(owner, requiredSize int) (base int, ok bool) {
	for i := range a.blocks {
		b := &a.blocks[i]
		if b.Owner != Free || b.Size < requiredSize {
			continue
		}

		start := b.Start
		remainder := b.Size - requiredSize
		b.Owner = owner
		b.Size = requiredSize

		if remainder > 0 {
			rest := Block{Owner: Free, Start: start + requiredSize, Size: remainder}
			a.blocks = append(a.blocks, Block{})
			copy(a.blocks[i+2:], a.blocks[i+1:])
			a.blocks[i+1] = rest
		}
		return start, true
	}
	return 0, false
}

// Free locates the block owned by processID, overwrites its words in mem
// with arena.Empty, and marks it Free. It does not coalesce.
func (a *Allocator) Free(mem *arena.Arena, processID int) {
	for i := range a.blocks {
		b := &a.blocks[i]
		if b.Owner != processID {
			continue
		}
		mem.Clear(b.Start, b.Size)
		b.Owner = Free
		return
	}
	panic(fmt.Sprintf("allocator: free of unknown process %d", processID))
}

// FindOwned returns the block owned by processID and true, or a zero Block
// and false.
func (a *Allocator) FindOwned(processID int) (Block, bool) {
	for _, b := range a.blocks {
		if b.Owner == processID {
			return b, true
		}
	}
	return Block{}, false
}

// Coalesce repeatedly merges adjacent free blocks until a full pass makes
// no further merges. Reports whether any merge occurred.
func (a *Allocator) Coalesce() bool {
	merged := false
	for {
		progressed := false
		for i := 0; i < len(a.blocks)-1; i++ {
			cur := &a.blocks[i]
			next := a.blocks[i+1]
			if cur.Owner == Free && next.Owner == Free && cur.Start+cur.Size == next.Start {
				cur.Size += next.Size
				a.blocks = append(a.blocks[:i+1], a.blocks[i+2:]...)
				progressed = true
				merged = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	return merged
}

// HasFreeBlockOfAtLeast reports whether any free block can satisfy size.
func (a *Allocator) HasFreeBlockOfAtLeast(size int) bool {
	for _, b := range a.blocks {
		if b.Owner == Free && b.Size >= size {
			return true
		}
	}
	return false
}

// CheckPartition asserts the blocks cover [0, limit) exactly, strictly
// ordered and non-overlapping. It panics on violation, per this
// simulator's "structural corruption is fatal" error model.
func (a *Allocator) CheckPartition() {
	expect := 0
	for _, b := range a.blocks {
		if b.Start != expect {
			panic(fmt.Sprintf("allocator: partition gap/overlap at %d, block starts at %d", expect, b.Start))
		}
		expect += b.Size
	}
	if expect != a.limit {
		panic(fmt.Sprintf("allocator: partition does not cover arena: got %d want %d", expect, a.limit))
	}
}
