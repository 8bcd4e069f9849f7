package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Save lifecycle states. Failures return to idle; the error text lives in
// SaveState, not in the machine, so a failed save never wedges the lifecycle.
const (
	SaveIdle   = "idle"
	SaveSaving = "saving"
)

// Save lifecycle events.
const (
	SaveEventBegin   = "begin"
	SaveEventSucceed = "succeed"
	SaveEventFail    = "fail"
)

// saveContext carries no data; the machine exists purely to make illegal
// save-state transitions unrepresentable.
type saveContext struct{}

// SaveStateMachine guards the idle/saving lifecycle shared by autosave,
// manual save and submit. At most one persistence call is in flight per
// document; Begin fails while one is.
type SaveStateMachine struct {
	interpreter *statekit.Interpreter[saveContext]
}

// NewSaveStateMachine builds the machine in the idle state.
func NewSaveStateMachine() (*SaveStateMachine, error) {
	builder := statekit.NewMachine[saveContext]("save-machine").
		WithInitial(statekit.StateID(SaveIdle)).
		WithContext(saveContext{})

	builder.State(SaveIdle).
		On(SaveEventBegin).Target(SaveSaving).
		Done()

	builder.State(SaveSaving).
		On(SaveEventSucceed).Target(SaveIdle).
		On(SaveEventFail).Target(SaveIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build save state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &SaveStateMachine{interpreter: interpreter}, nil
}

// Transition sends an event and reports whether it was legal for the current
// state. Duplicate begins are how concurrent saves are refused.
func (sm *SaveStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("the event '%s' is not allowed while the save state is '%s'", event, before)
}

// Current returns the current lifecycle state.
func (sm *SaveStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// IsSaving reports whether a persistence call is in flight.
func (sm *SaveStateMachine) IsSaving() bool {
	return sm.Current() == SaveSaving
}
