package vt

import (
	"reflect"
	"testing"
)

func TestPrintableBytes(t *testing.T) {
	in := New()
	actions := in.Process([]byte("hi"))
	want := []Action{Print{'h'}, Print{'i'}}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("Process(hi) = %v, want %v", actions, want)
	}
}

func TestControlCharacters(t *testing.T) {
	in := New()
	actions := in.Process([]byte("a\r\n\tb\x08"))
	want := []Action{
		Print{'a'},
		CarriageReturn{},
		LineFeed{},
		Tab{},
		Print{'b'},
		Backspace{},
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("got %v, want %v", actions, want)
	}
}

func TestClearAndColour(t *testing.T) {
	in := New()
	actions := in.Process([]byte("\x1b[2J\x1b[31mX\x1b[0m"))
	want := []Action{
		ClearScreen{},
		SetForeground{R: 128, G: 0, B: 0},
		Print{'X'},
		Reset{},
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("got %v, want %v", actions, want)
	}
}

func TestSGRMapping(t *testing.T) {
	tests := []struct {
		seq  string
		want Action
	}{
		{"\x1b[0m", Reset{}},
		{"\x1b[m", Reset{}},
		{"\x1b[1m", SetBold{On: true}},
		{"\x1b[22m", SetBold{On: false}},
		{"\x1b[3m", SetItalic{On: true}},
		{"\x1b[23m", SetItalic{On: false}},
		{"\x1b[4m", SetUnderline{On: true}},
		{"\x1b[24m", SetUnderline{On: false}},
		{"\x1b[30m", SetForeground{0, 0, 0}},
		{"\x1b[31m", SetForeground{128, 0, 0}},
		{"\x1b[32m", SetForeground{0, 128, 0}},
		{"\x1b[33m", SetForeground{128, 128, 0}},
		{"\x1b[34m", SetForeground{0, 0, 128}},
		{"\x1b[35m", SetForeground{128, 0, 128}},
		{"\x1b[36m", SetForeground{0, 128, 128}},
		{"\x1b[37m", SetForeground{192, 192, 192}},
		{"\x1b[42m", SetBackground{0, 128, 0}},
		{"\x1b[47m", SetBackground{192, 192, 192}},
	}

	for _, tt := range tests {
		in := New()
		actions := in.Process([]byte(tt.seq))
		if len(actions) != 1 || !reflect.DeepEqual(actions[0], tt.want) {
			t.Errorf("Process(%q) = %v, want [%v]", tt.seq, actions, tt.want)
		}
	}
}

func TestSGRMultipleParams(t *testing.T) {
	in := New()
	actions := in.Process([]byte("\x1b[1;31;4m"))
	want := []Action{
		SetBold{On: true},
		SetForeground{R: 128, G: 0, B: 0},
		SetUnderline{On: true},
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("got %v, want %v", actions, want)
	}
}

func TestCursorPosition(t *testing.T) {
	tests := []struct {
		seq  string
		want SetCursor
	}{
		{"\x1b[H", SetCursor{Row: 0, Col: 0}},
		{"\x1b[5;10H", SetCursor{Row: 4, Col: 9}},
		{"\x1b[5;10f", SetCursor{Row: 4, Col: 9}},
		{"\x1b[;3H", SetCursor{Row: 0, Col: 2}},
		{"\x1b[7H", SetCursor{Row: 6, Col: 0}},
	}

	for _, tt := range tests {
		in := New()
		actions := in.Process([]byte(tt.seq))
		if len(actions) != 1 || actions[0] != Action(tt.want) {
			t.Errorf("Process(%q) = %v, want [%v]", tt.seq, actions, tt.want)
		}
	}
}

func TestEraseDisplayOnlyFull(t *testing.T) {
	in := New()
	if actions := in.Process([]byte("\x1b[J\x1b[0J\x1b[1J")); len(actions) != 0 {
		t.Errorf("partial erase should raise no actions, got %v", actions)
	}
	if actions := in.Process([]byte("\x1b[2J")); len(actions) != 1 {
		t.Errorf("ESC[2J should clear the screen, got %v", actions)
	}
}

func TestClearLine(t *testing.T) {
	in := New()
	actions := in.Process([]byte("\x1b[K"))
	if len(actions) != 1 {
		t.Fatalf("got %v", actions)
	}
	if _, ok := actions[0].(ClearLine); !ok {
		t.Errorf("got %T, want ClearLine", actions[0])
	}
}

func TestUnknownSequencesConsumed(t *testing.T) {
	inputs := []string{
		"\x1b[?25l",           // hide cursor (private mode)
		"\x1b[6n",             // device status report
		"\x1b]0;title\x07",    // OSC title, BEL terminated
		"\x1b]0;title\x1b\\",  // OSC title, ST terminated
		"\x1bP1$r0m\x1b\\",    // DCS
		"\x1b(B",              // charset designation
		"\x1b[38;5;196mployz", // extended colour: ignored, text still prints
	}

	for _, input := range inputs {
		in := New()
		actions := in.Process([]byte(input))
		for _, a := range actions {
			if _, ok := a.(Print); !ok {
				t.Errorf("Process(%q) raised non-print action %v", input, a)
			}
		}
	}
}

func TestSplitSequenceAcrossCalls(t *testing.T) {
	in := New()
	var actions []Action
	actions = append(actions, in.Process([]byte("\x1b["))...)
	actions = append(actions, in.Process([]byte("31"))...)
	actions = append(actions, in.Process([]byte("m"))...)
	want := []Action{SetForeground{R: 128, G: 0, B: 0}}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("got %v, want %v", actions, want)
	}
}

func TestUTF8Print(t *testing.T) {
	in := New()
	actions := in.Process([]byte("é"))
	want := []Action{Print{'é'}}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("got %v, want %v", actions, want)
	}
}

func TestTotality(t *testing.T) {
	// Every byte value, in several orders, must be consumed without panic.
	var all []byte
	for i := 0; i < 256; i++ {
		all = append(all, byte(i))
	}
	in := New()
	_ = in.Process(all)

	in = New()
	for i := len(all) - 1; i >= 0; i-- {
		_ = in.Process([]byte{all[i]})
	}
}

func TestPrintablesAlwaysPrint(t *testing.T) {
	in := New()
	input := []byte("plain text 123 !@#")
	actions := in.Process(input)
	if len(actions) != len(input) {
		t.Fatalf("got %d actions for %d printable bytes", len(actions), len(input))
	}
	for i, a := range actions {
		p, ok := a.(Print)
		if !ok || p.Char != rune(input[i]) {
			t.Errorf("action %d = %v, want Print(%c)", i, a, input[i])
		}
	}
}
