package session

import (
	"math/bits"
	"strings"
)

// Phase is the lifecycle phase of a session.
type Phase int

const (
	Idle Phase = iota
	Active
	Paused
	Complete
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Operation is a kind of stack operation.
type Operation uint8

const (
	OpPush Operation = 1 << iota
	OpPop
	OpPeek
	OpClear
)

var allOperations = []Operation{OpPush, OpPop, OpPeek, OpClear}

// String returns the string representation of the operation
func (o Operation) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpPeek:
		return "peek"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Operations is the set of stack operation kinds exercised in a session.
type Operations uint8

// With returns the set with op added.
func (s Operations) With(op Operation) Operations {
	return s | Operations(op)
}

// Has reports whether op is in the set.
func (s Operations) Has(op Operation) bool {
	return s&Operations(op) != 0
}

// Count returns the number of distinct operations in the set.
func (s Operations) Count() int {
	return bits.OnesCount8(uint8(s))
}

// List returns the operations in the set in push, pop, peek, clear order.
func (s Operations) List() []Operation {
	var out []Operation
	for _, op := range allOperations {
		if s.Has(op) {
			out = append(out, op)
		}
	}
	return out
}

func (s Operations) String() string {
	names := make([]string, 0, 4)
	for _, op := range s.List() {
		names = append(names, op.String())
	}
	return strings.Join(names, ",")
}
