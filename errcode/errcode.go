package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"

	// Precondition faults.
	InvalidPin       Code = "invalid_pin"
	InvalidIRQ       Code = "invalid_irq"
	PeripheralsTaken Code = "peripherals_taken"

	// Hardware readiness waits that never resolved, one per wait site.
	OscillatorStartTimeout Code = "oscillator_start_timeout"
	PLLLockTimeout         Code = "pll_lock_timeout"
	ClockSwitchTimeout     Code = "clock_switch_timeout"
	SPITransferTimeout     Code = "spi_transfer_timeout"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New builds an *E for op with an optional message.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// IsTimeout reports whether err is one of the readiness-wait faults.
func IsTimeout(err error) bool {
	switch Of(err) {
	case OscillatorStartTimeout, PLLLockTimeout, ClockSwitchTimeout, SPITransferTimeout:
		return true
	}
	return false
}
