// Package cell implements the interaction model of a single letter slot
// in a puzzle grid: keyboard input, focus reporting, navigation keys and
// the derivation of the slot's visual state. A cell decides nothing about
// puzzle correctness or cursor ownership; it translates raw events into
// semantic callbacks for the grid coordinator that owns the answer state.
package cell

import (
	"errors"
	"unicode/utf8"
)

// Position is a row/column coordinate within one grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction orients the blinking-cursor indicator of an active empty cell.
type Direction int

const (
	// DirectionNone means no orientation hint was given. It renders the
	// same as DirectionAcross: horizontal is the canonical default.
	DirectionNone Direction = iota
	DirectionAcross
	DirectionDown
)

// Base is the exclusive visual category of a cell. A cell is exactly one
// of these; combinations like blank-and-active cannot be expressed.
type Base int

const (
	// BaseNormal is an ordinary enabled, unfocused letter cell.
	BaseNormal Base = iota
	// BaseActive holds the grid cursor. Implies enabled and non-blank.
	BaseActive
	// BaseDisabled takes no input but may still carry overlays
	// (a solved, locked cell is disabled and correct at once).
	BaseDisabled
	// BaseBlank is a non-interactive filler box: no input surface,
	// no number, no cursor, no overlays.
	BaseBlank
)

// Overlay flags combine freely with each other and with any base except
// BaseBlank. They are labels, not states: the renderer must not assume
// exclusivity.
type Overlay struct {
	Correct     bool
	Wrong       bool
	Highlighted bool
}

// ErrBlankOverlay is returned when an overlay is requested on a blank cell.
var ErrBlankOverlay = errors.New("cell: blank cells cannot carry overlays")

// State is the full externally supplied state of one cell for one render
// pass. The grid coordinator rebuilds it every pass; cells keep no answer
// state of their own.
type State struct {
	Base    Base
	Overlay Overlay
	// Input is the user's current guess: empty or a single letter.
	Input string
	// Number is the clue-numbering annotation; 0 means none.
	Number int
	// Cursor orients the cursor indicator when the cell is active and empty.
	Cursor Direction
}

// NewState validates the base/overlay combination.
func NewState(base Base, overlay Overlay, input string, number int, cursor Direction) (State, error) {
	if base == BaseBlank && overlay != (Overlay{}) {
		return State{}, ErrBlankOverlay
	}
	return State{Base: base, Overlay: overlay, Input: input, Number: number, Cursor: cursor}, nil
}

// Key identifies a navigation key, using the conventional key names.
type Key string

const (
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyTab        Key = "Tab"
	KeyEnter      Key = "Enter"
	KeyBackspace  Key = "Backspace"
)

// navigational reports whether the key belongs to the navigation set.
func (k Key) navigational() bool {
	switch k {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight, KeyTab, KeyEnter, KeyBackspace:
		return true
	}
	return false
}

// Handlers are the coordinator's semantic callbacks. Nil handlers are
// simply skipped.
type Handlers struct {
	// OnInput receives the normalized uppercase letter, or "" on clear.
	OnInput func(pos Position, value string)
	// OnFocus fires on every click/focus of an enabled non-blank cell,
	// including repeat focus of the already focused cell. The coordinator
	// relies on repeats to toggle direction at intersection cells.
	OnFocus func(pos Position)
	// OnNavigate receives keys from the navigation set.
	OnNavigate func(pos Position, key Key)
}

// Command asks the host to run a side effect after the render pass.
type Command int

const (
	// CommandFocus moves real input focus to the cell's input surface.
	CommandFocus Command = iota
	// CommandShake restarts the wrong-answer shake animation.
	CommandShake
)

// Controller drives one grid position. The coordinator creates one per
// cell and pushes fresh State into it every render pass via SetState.
type Controller struct {
	pos      Position
	alphabet Alphabet
	handlers Handlers
	state    State
}

// New creates a controller for a position. The initial state is a normal
// empty cell; call SetState to supply the real one.
func New(pos Position, alphabet Alphabet, handlers Handlers) *Controller {
	return &Controller{pos: pos, alphabet: alphabet, handlers: handlers}
}

// Position returns the cell's coordinate.
func (c *Controller) Position() Position { return c.pos }

// State returns the last state pushed by the coordinator.
func (c *Controller) State() State { return c.state }

// SetState replaces the cell's state and returns the commands the host
// must execute after the paint:
//
//   - CommandFocus when the cell becomes active (active cells are enabled
//     and non-blank by construction), so keyboard navigation moves real
//     input focus without a click;
//   - CommandShake when Wrong transitions false to true. Repeated renders
//     with Wrong already set do not restack the animation.
func (c *Controller) SetState(next State) []Command {
	prev := c.state
	c.state = next

	var cmds []Command
	if next.Base == BaseActive && prev.Base != BaseActive {
		cmds = append(cmds, CommandFocus)
	}
	if next.Overlay.Wrong && !prev.Overlay.Wrong {
		cmds = append(cmds, CommandShake)
	}
	return cmds
}

// interactive reports whether the cell takes pointer/keyboard events at all.
func (c *Controller) interactive() bool {
	return c.state.Base != BaseBlank && c.state.Base != BaseDisabled
}

// HandleFocus reports a click or programmatic focus. It fires OnFocus for
// every call on an interactive cell; deduplicating repeats would break
// direction toggling at intersections.
func (c *Controller) HandleFocus() {
	if !c.interactive() {
		return
	}
	if c.handlers.OnFocus != nil {
		c.handlers.OnFocus(c.pos)
	}
}

// HandleKey processes a navigation key press. It returns true when the
// key was consumed, meaning the host must suppress the default action.
// Backspace first clears the input (OnInput with "") and then navigates;
// the other navigation keys only navigate. Keys outside the set are left
// alone so ordinary text entry proceeds through HandleText.
func (c *Controller) HandleKey(key Key) bool {
	if !c.interactive() || !key.navigational() {
		return false
	}
	if key == KeyBackspace && c.handlers.OnInput != nil {
		c.handlers.OnInput(c.pos, "")
	}
	if c.handlers.OnNavigate != nil {
		c.handlers.OnNavigate(c.pos, key)
	}
	return true
}

// HandleText processes printable input. Disabled and blank cells
// short-circuit before normalization. A single character is uppercased
// and forwarded iff it belongs to the alphabet; anything else — digits,
// punctuation, multi-character strings — is discarded without a callback
// or an error. An empty string reports a field clear and is forwarded
// as such.
func (c *Controller) HandleText(text string) {
	if !c.interactive() {
		return
	}
	if text == "" {
		if c.handlers.OnInput != nil {
			c.handlers.OnInput(c.pos, "")
		}
		return
	}
	value, ok := c.alphabet.Normalize(text)
	if !ok {
		return
	}
	if c.handlers.OnInput != nil {
		c.handlers.OnInput(c.pos, value)
	}
}

// Labels are the independent visual category bits of a rendered cell.
type Labels struct {
	Active      bool
	Disabled    bool
	Blank       bool
	Correct     bool
	Wrong       bool
	Highlighted bool
	// Filled is set when the cell shows a user letter.
	Filled bool
	// Shake accompanies Wrong; the host restarts the animation on
	// CommandShake, not on every render.
	Shake bool
}

// RenderState is the pure visual derivation of a State.
type RenderState struct {
	// Interactive is false for blank cells, which render as an empty
	// box with no input surface.
	Interactive bool
	Value       string
	// Number is the corner annotation; 0 means hidden.
	Number int
	// ShowCursor is true iff the cell is active, enabled and empty.
	ShowCursor bool
	// CursorVertical is true only for DirectionDown; DirectionAcross
	// and DirectionNone both render the horizontal indicator.
	CursorVertical bool
	Labels         Labels
}

// Render derives the visual state. It is a pure function of State.
func (s State) Render() RenderState {
	if s.Base == BaseBlank {
		return RenderState{Labels: Labels{Blank: true}}
	}

	active := s.Base == BaseActive
	disabled := s.Base == BaseDisabled
	filled := utf8.RuneCountInString(s.Input) > 0

	return RenderState{
		Interactive:    true,
		Value:          s.Input,
		Number:         s.Number,
		ShowCursor:     active && !filled,
		CursorVertical: s.Cursor == DirectionDown,
		Labels: Labels{
			Active:      active,
			Disabled:    disabled,
			Correct:     s.Overlay.Correct,
			Wrong:       s.Overlay.Wrong,
			Highlighted: s.Overlay.Highlighted,
			Filled:      filled,
			Shake:       s.Overlay.Wrong,
		},
	}
}
