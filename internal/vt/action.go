// Package vt interprets a terminal byte stream into high-level screen
// actions. The interpreter is a pure stream transformer: it performs no
// I/O and never fails, whatever bytes it is fed.
package vt

// Action is one high-level screen operation decoded from the stream.
type Action interface {
	isAction()
}

// Print writes one character at the cursor.
type Print struct {
	Char rune
}

// LineFeed moves the cursor down one row.
type LineFeed struct{}

// CarriageReturn moves the cursor to column zero.
type CarriageReturn struct{}

// Backspace moves the cursor left one column.
type Backspace struct{}

// Tab advances the cursor to the next tab stop.
type Tab struct{}

// ClearScreen erases the whole screen.
type ClearScreen struct{}

// ClearLine erases the current line.
type ClearLine struct{}

// SetCursor places the cursor at a zero-based row and column.
type SetCursor struct {
	Row, Col int
}

// SetForeground sets the foreground colour.
type SetForeground struct {
	R, G, B uint8
}

// SetBackground sets the background colour.
type SetBackground struct {
	R, G, B uint8
}

// SetBold toggles bold rendering.
type SetBold struct {
	On bool
}

// SetItalic toggles italic rendering.
type SetItalic struct {
	On bool
}

// SetUnderline toggles underline rendering.
type SetUnderline struct {
	On bool
}

// Reset restores default colours and attributes.
type Reset struct{}

func (Print) isAction()          {}
func (LineFeed) isAction()       {}
func (CarriageReturn) isAction() {}
func (Backspace) isAction()      {}
func (Tab) isAction()            {}
func (ClearScreen) isAction()    {}
func (ClearLine) isAction()      {}
func (SetCursor) isAction()      {}
func (SetForeground) isAction()  {}
func (SetBackground) isAction()  {}
func (SetBold) isAction()        {}
func (SetItalic) isAction()      {}
func (SetUnderline) isAction()   {}
func (Reset) isAction()          {}

type rgb struct{ r, g, b uint8 }

// The classic 8-colour ANSI palette.
var palette = [8]rgb{
	{0, 0, 0},       // black
	{128, 0, 0},     // red
	{0, 128, 0},     // green
	{128, 128, 0},   // yellow
	{0, 0, 128},     // blue
	{128, 0, 128},   // magenta
	{0, 128, 128},   // cyan
	{192, 192, 192}, // white
}
