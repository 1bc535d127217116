package runner

import (
	"fmt"
	"time"
)

// fallbackInput is served when the mock-input sequence is empty.
const fallbackInput = "exit"

// timeoutSignal aborts execution when the cooperative deadline check
// fires. It unwinds as a panic through the interpreter and is recovered by
// the runner.
type timeoutSignal struct {
	limit time.Duration
}

func (t timeoutSignal) Error() string {
	return fmt.Sprintf("execution timeout (%s limit)", t.limit)
}

// exitSignal terminates execution cleanly when the target program calls
// the exit hook. It is never reported as an error.
type exitSignal struct {
	code int
}

// MockInput substitutes the program's input source. Values are drawn in
// order from the sequence, repeating the final value once exhausted. Every
// draw checks elapsed wall time against the timeout; input draws are the
// only cancellation points.
type MockInput struct {
	inputs  []string
	index   int
	start   time.Time
	timeout time.Duration

	pending []byte
}

// NewMockInput creates the input hook. The timeout clock starts now.
func NewMockInput(inputs []string, timeout time.Duration) *MockInput {
	return &MockInput{
		inputs:  inputs,
		start:   time.Now(),
		timeout: timeout,
	}
}

// Next returns the next mocked input value. The prompt is accepted for
// signature compatibility and ignored.
func (m *MockInput) Next(_ string) string {
	if m.timeout > 0 && time.Since(m.start) > m.timeout {
		panic(timeoutSignal{limit: m.timeout})
	}

	if m.index < len(m.inputs) {
		value := m.inputs[m.index]
		m.index++

		return value
	}

	if len(m.inputs) > 0 {
		return m.inputs[len(m.inputs)-1]
	}

	return fallbackInput
}

// Read serves the mocked values as a newline-delimited stream so targets
// reading stdin directly observe the same sequence and the same
// cooperative timeout checks.
func (m *MockInput) Read(p []byte) (int, error) {
	if len(m.pending) == 0 {
		m.pending = append([]byte(m.Next("")), '\n')
	}

	n := copy(p, m.pending)
	m.pending = m.pending[n:]

	return n, nil
}
