//go:build !(ppc64 || ppc64le)

package native

// Host is unavailable on this architecture.
type Host struct{}

// NewHost always fails with ErrHostUnavailable.
func NewHost() (*Host, error) {
	return nil, ErrHostUnavailable
}

// Execute always fails with ErrHostUnavailable.
func (h *Host) Execute(uint32, Regs) (Regs, error) {
	return Regs{}, ErrHostUnavailable
}

// Close does nothing.
func (h *Host) Close() error {
	return nil
}
