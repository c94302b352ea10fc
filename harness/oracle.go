package harness

import (
	"errors"
	"fmt"

	"github.com/sarchlab/ppcverify/native"
	"github.com/sarchlab/ppcverify/ref"
)

// Oracle produces the expected result of a test case.
type Oracle interface {
	Name() string
	Supports(m *Member) bool
	Execute(s Setup) (State, error)
}

// Oracle modes accepted by NewOracle.
const (
	OracleAuto      = "auto"
	OracleHost      = "host"
	OracleReference = "reference"
)

// ErrUnknownOracle is returned for an unrecognized oracle mode.
var ErrUnknownOracle = errors.New("unknown oracle mode")

// NewOracle creates the oracle for mode. Host oracles hold a mapped code
// page and must be closed with CloseOracle.
func NewOracle(mode string) (Oracle, error) {
	switch mode {
	case OracleReference:
		return Reference{}, nil
	case OracleHost:
		h, err := NewHostOracle()
		if err != nil {
			return nil, fmt.Errorf("host oracle: %w", err)
		}
		return h, nil
	case OracleAuto, "":
		h, err := NewHostOracle()
		if errors.Is(err, native.ErrHostUnavailable) {
			return &Auto{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("host oracle: %w", err)
		}
		return &Auto{host: h}, nil
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrUnknownOracle)
	}
}

// CloseOracle releases resources held by o, if any.
func CloseOracle(o Oracle) error {
	if c, ok := o.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Reference evaluates cases with the ref package's model.
type Reference struct{}

// Name returns "reference".
func (Reference) Name() string { return OracleReference }

// Supports reports whether the model implements m.
func (Reference) Supports(m *Member) bool {
	return ref.Supports(m.Encode(Operands{}))
}

// Execute runs s on a fresh model.
func (Reference) Execute(s Setup) (State, error) {
	m := ref.Machine{CR: s.CR, XER: s.XER}
	m.GPR[RegRD] = s.RD
	m.GPR[RegRA] = s.Operands.RA
	m.GPR[RegRB] = s.Operands.RB

	if err := m.Execute(s.Word); err != nil {
		return State{}, err
	}

	return State{RD: m.GPR[RegRD], CR: m.CR, XER: m.XER}, nil
}

// HostOracle executes cases on the host processor.
type HostOracle struct {
	host *native.Host
}

// NewHostOracle maps the host code page. It fails with
// native.ErrHostUnavailable when the host is not a PowerPC.
func NewHostOracle() (*HostOracle, error) {
	h, err := native.NewHost()
	if err != nil {
		return nil, err
	}
	return &HostOracle{host: h}, nil
}

// Name returns "host".
func (*HostOracle) Name() string { return OracleHost }

// Supports reports whether m behaves the same on the 64-bit host as on a
// 32-bit implementation.
func (*HostOracle) Supports(m *Member) bool {
	return native.Faithful(m.Encode(Operands{}))
}

// Execute runs s natively.
func (o *HostOracle) Execute(s Setup) (State, error) {
	out, err := o.host.Execute(s.Word, native.Regs{
		RD:  s.RD,
		RA:  s.Operands.RA,
		RB:  s.Operands.RB,
		CR:  s.CR,
		XER: s.XER,
	})
	if err != nil {
		return State{}, err
	}

	out = native.Mask(out)
	return State{RD: out.RD, CR: out.CR, XER: out.XER}, nil
}

// Close unmaps the code page.
func (o *HostOracle) Close() error {
	return o.host.Close()
}

// Auto uses the host for the members it supports and the reference model
// for the rest.
type Auto struct {
	host     *HostOracle
	fallback Reference
}

// Name returns "auto".
func (*Auto) Name() string { return OracleAuto }

// For returns the oracle that handles m.
func (a *Auto) For(m *Member) Oracle {
	if a.host != nil && a.host.Supports(m) {
		return a.host
	}
	return a.fallback
}

// Supports reports whether either oracle handles m.
func (a *Auto) Supports(m *Member) bool {
	return a.For(m).Supports(m)
}

// Execute runs s on the oracle selected for its member.
func (a *Auto) Execute(s Setup) (State, error) {
	return a.For(s.Member).Execute(s)
}

// Close releases the host oracle, if any.
func (a *Auto) Close() error {
	if a.host == nil {
		return nil
	}
	return a.host.Close()
}

// oracleName is the name of the oracle that will actually run m.
func oracleName(o Oracle, m *Member) string {
	if a, ok := o.(*Auto); ok {
		return a.For(m).Name()
	}
	return o.Name()
}
