//go:build ppc64 || ppc64le

package native

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// Implemented in host_power.s.
func call(code *byte, regs *Regs)
func flush(addr *byte, n uintptr)

// Host executes instructions on the local PowerPC processor.
type Host struct {
	page []byte
}

// NewHost maps the code page.
func NewHost() (*Host, error) {
	page, err := unix.Mmap(-1, 0, unix.Getpagesize(),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("native: map code page: %w", err)
	}
	return &Host{page: page}, nil
}

// Execute runs word with the given registers and returns the registers the
// routine stored back.
func (h *Host) Execute(word uint32, regs Regs) (Regs, error) {
	if err := unix.Mprotect(h.page, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return Regs{}, fmt.Errorf("native: unprotect code page: %w", err)
	}

	prog := Program(word)
	for i, w := range prog {
		binary.NativeEndian.PutUint32(h.page[4*i:], w)
	}

	if err := unix.Mprotect(h.page, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return Regs{}, fmt.Errorf("native: protect code page: %w", err)
	}

	flush(&h.page[0], uintptr(4*len(prog)))
	call(&h.page[0], &regs)

	return regs, nil
}

// Close unmaps the code page.
func (h *Host) Close() error {
	if h.page == nil {
		return nil
	}
	err := unix.Munmap(h.page)
	h.page = nil
	return err
}
