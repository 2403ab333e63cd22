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

// Package arena simulates the flat word-addressed main memory that every
// other component in this simulator reads and writes.
package arena

import "fmt"

// Empty is the sentinel word value for memory outside any owned block.
const Empty = -1

// Arena is a flat array of signed words, initialised to Empty.
type Arena struct {
	words []int
}

// New allocates an Arena of size words, every word set to Empty.
func New(size int) *Arena {
	a := &Arena{words: make([]int, size)}
	for i := range a.words {
		a.words[i] = Empty
	}
	return a
}

// Size returns the number of words in the arena.
func (a *Arena) Size() int {
	return len(a.words)
}

// Read returns the word at addr. Out-of-range access is a bug in the
// caller, never a silently-tolerated condition, so it panics.
func (a *Arena) Read(addr int) int {
	if addr < 0 || addr >= len(a.words) {
		panic(fmt.Sprintf("arena: read out of range: addr=%d size=%d", addr, len(a.words)))
	}
	return a.words[addr]
}

// Write stores value at addr. Out-of-range access panics.
func (a *Arena) Write(addr, value int) {
	if addr < 0 || addr >= len(a.words) {
		panic(fmt.Sprintf("arena: write out of range: addr=%d size=%d", addr, len(a.words)))
	}
	a.words[addr] = value
}

// Clear overwrites [start, start+size) with Empty. Used when a process's
// owning block is freed.
func (a *Arena) Clear(start, size int) {
	if start < 0 || size < 0 || start+size > len(a.words) {
		panic(fmt.Sprintf("arena: clear out of range: start=%d size=%d arena=%d", start, size, len(a.words)))
	}
	for i := start; i < start+size; i++ {
		a.words[i] = Empty
	}
}

// Dump renders every word in the arena as "<addr> : <word>" lines, matching
// the original simulator's memory-dump format exactly.
func (a *Arena) Dump() []string {
	lines := make([]string, len(a.words))
	for i, w := range a.words {
		lines[i] = fmt.Sprintf("%d : %d", i, w)
	}
	return lines
}
