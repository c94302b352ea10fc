// Package emu provides functional 32-bit PowerPC emulation.
package emu

import "encoding/binary"

const pageSize = 4096

// Memory is a sparse, big-endian, 32-bit address space. Pages are
// allocated on first write; unwritten memory reads as zero.
type Memory struct {
	pages map[uint32][]byte
}

// NewMemory creates an empty address space.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32][]byte)}
}

func (m *Memory) page(addr uint32, create bool) []byte {
	base := addr &^ (pageSize - 1)
	p, ok := m.pages[base]
	if !ok && create {
		p = make([]byte, pageSize)
		m.pages[base] = p
	}
	return p
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint32) byte {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr&(pageSize-1)]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint32, value byte) {
	m.page(addr, true)[addr&(pageSize-1)] = value
}

// Read32 reads a big-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	var buf [4]byte
	for i := range buf {
		buf[i] = m.Read8(addr + uint32(i))
	}
	return binary.BigEndian.Uint32(buf[:])
}

// Write32 writes a big-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], value)
	for i, b := range buf {
		m.Write8(addr+uint32(i), b)
	}
}

// Read returns size bytes starting at addr. It lets the instruction cache
// fill lines from this memory.
func (m *Memory) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = m.Read8(uint32(addr) + uint32(i))
	}
	return data
}
