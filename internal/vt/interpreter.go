package vt

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
)

// Interpreter decodes a terminal byte stream into Actions. Escape
// sequences split across Process calls are carried over; sequences the
// interpreter does not understand are consumed without raising actions.
type Interpreter struct {
	state  parseState
	csiBuf []byte
	// pending holds an incomplete UTF-8 rune tail.
	pending []byte
	// oscEsc marks an ESC seen inside an OSC/DCS body (possible ST).
	oscEsc bool
}

// New creates an interpreter in the ground state.
func New() *Interpreter {
	return &Interpreter{}
}

// Process consumes bytes and returns the actions they decode to.
func (in *Interpreter) Process(data []byte) []Action {
	var actions []Action
	for _, b := range data {
		actions = in.advance(actions, b)
	}
	return actions
}

func (in *Interpreter) advance(actions []Action, b byte) []Action {
	switch in.state {
	case stateGround:
		return in.ground(actions, b)

	case stateEscape:
		switch b {
		case '[':
			in.state = stateCSI
			in.csiBuf = in.csiBuf[:0]
		case ']':
			in.state = stateOSC
			in.oscEsc = false
		case 'P':
			in.state = stateDCS
			in.oscEsc = false
		default:
			// Intermediate bytes extend the sequence (ESC ( B and kin);
			// any other byte ends it. Either way nothing is raised.
			if b < 0x20 || b > 0x2f {
				in.state = stateGround
			}
		}
		return actions

	case stateCSI:
		if b >= 0x40 && b <= 0x7e {
			actions = in.dispatchCSI(actions, b)
			in.state = stateGround
			return actions
		}
		if b >= 0x20 && b <= 0x3f {
			in.csiBuf = append(in.csiBuf, b)
			return actions
		}
		// Stray control byte inside a CSI sequence aborts it.
		in.state = stateGround
		return actions

	case stateOSC, stateDCS:
		// Terminated by BEL or by ST (ESC \).
		switch {
		case b == 0x07:
			in.state = stateGround
		case b == 0x1b:
			in.oscEsc = true
		case in.oscEsc && b == '\\':
			in.state = stateGround
		default:
			in.oscEsc = false
		}
		return actions
	}
	return actions
}

func (in *Interpreter) ground(actions []Action, b byte) []Action {
	if len(in.pending) > 0 {
		in.pending = append(in.pending, b)
		if r, _ := utf8.DecodeRune(in.pending); r != utf8.RuneError {
			actions = append(actions, Print{Char: r})
			in.pending = in.pending[:0]
		} else if len(in.pending) >= utf8.UTFMax {
			in.pending = in.pending[:0]
		}
		return actions
	}

	switch {
	case b == 0x1b:
		in.state = stateEscape
	case b == '\n':
		actions = append(actions, LineFeed{})
	case b == '\r':
		actions = append(actions, CarriageReturn{})
	case b == 0x08:
		actions = append(actions, Backspace{})
	case b == '\t':
		actions = append(actions, Tab{})
	case b >= 0x20 && b < 0x7f:
		actions = append(actions, Print{Char: rune(b)})
	case b >= 0x80:
		in.pending = append(in.pending, b)
	default:
		// Remaining C0 controls are dropped.
	}
	return actions
}

func (in *Interpreter) dispatchCSI(actions []Action, final byte) []Action {
	params := parseParams(string(in.csiBuf))

	switch final {
	case 'H', 'f':
		row := paramAt(params, 0, 1)
		col := paramAt(params, 1, 1)
		if row < 1 {
			row = 1
		}
		if col < 1 {
			col = 1
		}
		actions = append(actions, SetCursor{Row: row - 1, Col: col - 1})

	case 'J':
		if paramAt(params, 0, 0) == 2 {
			actions = append(actions, ClearScreen{})
		}

	case 'K':
		actions = append(actions, ClearLine{})

	case 'm':
		if len(params) == 0 {
			if len(in.csiBuf) > 0 {
				// Private or malformed SGR; consumed silently.
				return actions
			}
			params = []int{0}
		}
		for _, p := range params {
			actions = appendSGR(actions, p)
		}
	}
	return actions
}

func appendSGR(actions []Action, p int) []Action {
	switch {
	case p == 0:
		return append(actions, Reset{})
	case p == 1:
		return append(actions, SetBold{On: true})
	case p == 22:
		return append(actions, SetBold{On: false})
	case p == 3:
		return append(actions, SetItalic{On: true})
	case p == 23:
		return append(actions, SetItalic{On: false})
	case p == 4:
		return append(actions, SetUnderline{On: true})
	case p == 24:
		return append(actions, SetUnderline{On: false})
	case p >= 30 && p <= 37:
		c := palette[p-30]
		return append(actions, SetForeground{R: c.r, G: c.g, B: c.b})
	case p >= 40 && p <= 47:
		c := palette[p-40]
		return append(actions, SetBackground{R: c.r, G: c.g, B: c.b})
	}
	return actions
}

// parseParams splits a CSI parameter string into numbers. Empty fields
// parse as zero; private-mode markers and intermediates make the whole
// sequence parameterless.
func parseParams(raw string) []int {
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if (r < '0' || r > '9') && r != ';' {
			return nil
		}
	}
	fields := strings.Split(raw, ";")
	params := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			params = append(params, 0)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		params = append(params, n)
	}
	return params
}

func paramAt(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}
