package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotLoaded is returned when rows are requested before the dataset is ready.
var ErrNotLoaded = errors.New("dataset not loaded")

// LoadPhase is the coarse state of the dataset fetch.
type LoadPhase int

const (
	Loading LoadPhase = iota
	Ready
	Failed
)

func (p LoadPhase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("LoadPhase(%d)", int(p))
	}
}

// LoadState is the value owned by the composition root for the dataset.
// Only the field matching Phase is meaningful.
type LoadState struct {
	Phase   LoadPhase
	Dataset Dataset
	Err     error
}

// LoadingState is the state before the first fetch resolves.
func LoadingState() LoadState { return LoadState{Phase: Loading} }

// ReadyState wraps a successfully loaded dataset.
func ReadyState(ds Dataset) LoadState { return LoadState{Phase: Ready, Dataset: ds} }

// FailedState records a fetch or parse failure.
func FailedState(err error) LoadState { return LoadState{Phase: Failed, Err: err} }

// Rows returns the loaded rows, or ErrNotLoaded (wrapping the failure, if any).
func (s LoadState) Rows() ([]Row, error) {
	switch s.Phase {
	case Ready:
		return s.Dataset.Rows, nil
	case Failed:
		return nil, fmt.Errorf("%w: %w", ErrNotLoaded, s.Err)
	default:
		return nil, ErrNotLoaded
	}
}

// HoverState is either idle or focused on exactly one category.
// The zero value is idle.
type HoverState struct {
	category string
	focused  bool
}

// Idle is the hover state with no focused category.
var Idle = HoverState{}

// Focused returns the state focused on category. The empty category is idle.
func Focused(category string) HoverState {
	if category == "" {
		return Idle
	}
	return HoverState{category: category, focused: true}
}

// Enter handles a hover-enter event for category.
func (HoverState) Enter(category string) HoverState { return Focused(category) }

// Exit handles a hover-exit event.
func (HoverState) Exit() HoverState { return Idle }

// Category returns the focused category and whether there is one.
func (h HoverState) Category() (string, bool) { return h.category, h.focused }

// IsFocused reports whether some category is focused.
func (h HoverState) IsFocused() bool { return h.focused }

// Matches reports whether h is focused on category.
func (h HoverState) Matches(category string) bool {
	return h.focused && h.category == category
}

func (h HoverState) String() string {
	if !h.focused {
		return "idle"
	}
	return "focused(" + h.category + ")"
}

// Hover event kinds.
const (
	HoverEnter = "enter"
	HoverExit  = "exit"
)

// HoverEvent describes one hover transition for downstream consumers.
type HoverEvent struct {
	Kind     string    `json:"kind"`
	Category string    `json:"category,omitempty"`
	Previous string    `json:"previous,omitempty"`
	At       time.Time `json:"at"`
}

// NewHoverEvent describes the transition from prev to next.
func NewHoverEvent(prev, next HoverState) HoverEvent {
	ev := HoverEvent{Kind: HoverExit, At: Now()}
	if c, ok := next.Category(); ok {
		ev.Kind = HoverEnter
		ev.Category = c
	}
	if c, ok := prev.Category(); ok {
		ev.Previous = c
	}
	return ev
}
