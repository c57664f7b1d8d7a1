package workflow

import "fmt"

// Kind tags the active variant of State.
type Kind int

const (
	Idle Kind = iota
	InFlight
	Succeeded
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request is built once per translate attempt and never mutated.
type Request struct {
	Text           string
	TargetLanguage string
}

// State is a tagged union. Request is set for every kind but Idle,
// Translated only for Succeeded, Message only for Failed.
type State struct {
	Kind       Kind
	Request    Request
	Translated string
	Message    string
}

func idleState() State {
	return State{Kind: Idle}
}

func inFlightState(req Request) State {
	return State{Kind: InFlight, Request: req}
}

func succeededState(req Request, translated string) State {
	return State{Kind: Succeeded, Request: req, Translated: translated}
}

func failedState(req Request, msg string) State {
	return State{Kind: Failed, Request: req, Message: msg}
}

// Snapshot is an immutable copy of everything the presentation layer reads.
type Snapshot struct {
	Text           string
	TargetLanguage string
	SourceLanguage string
	State          State
	// Generation counts translate attempts; it identifies the attempt a
	// Succeeded or Failed state belongs to.
	Generation uint64
}
