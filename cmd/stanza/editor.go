package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/stanza-edit/stanza/internal/diag"
	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/engine/marks"
)

// editor is a minimal terminal frontend over the engine. The cursor is
// itself a mark in the buffer, so it rides along when a script or a
// diagnostics reload edits the text.
type editor struct {
	screen  tcell.Screen
	buf     *buffer.Buffer
	diags   *diag.Set
	title   string
	cursor  marks.ID
	topLine int
}

func newEditor(buf *buffer.Buffer, diags *diag.Set, title string) (*editor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	if title == "" {
		title = "[scratch]"
	}
	cursor, err := buf.PlaceMark(0)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	return &editor{
		screen: screen,
		buf:    buf,
		diags:  diags,
		title:  title,
		cursor: cursor,
	}, nil
}

func (e *editor) shutdown() {
	e.screen.Fini()
}

func (e *editor) run() error {
	for {
		e.render()

		switch ev := e.screen.PollEvent().(type) {
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			quit, err := e.handleKey(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (e *editor) handleKey(ev *tcell.EventKey) (quit bool, err error) {
	cur := e.cursorOffset()

	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true, nil

	case tcell.KeyLeft:
		if cur > 0 {
			e.moveCursor(cur - 1)
		}
	case tcell.KeyRight:
		if cur < e.buf.Len() {
			e.moveCursor(cur + 1)
		}
	case tcell.KeyUp:
		e.moveVertically(cur, -1)
	case tcell.KeyDown:
		e.moveVertically(cur, +1)

	case tcell.KeyEnter:
		_, err = e.buf.Insert(cur, "\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if cur > 0 {
			err = e.buf.Delete(cur-1, cur)
		}
	case tcell.KeyRune:
		_, err = e.buf.Insert(cur, string(ev.Rune()))
	}
	return false, err
}

// cursorOffset reads the cursor mark, re-anchoring it at the end of the
// buffer if an edit consumed it.
func (e *editor) cursorOffset() int {
	if r, ok := e.buf.Mark(e.cursor); ok {
		return r.Start
	}
	if id, err := e.buf.PlaceMark(e.buf.Len()); err == nil {
		e.cursor = id
	}
	return e.buf.Len()
}

func (e *editor) moveCursor(to int) {
	e.buf.RemoveMark(e.cursor)
	if id, err := e.buf.PlaceMark(to); err == nil {
		e.cursor = id
	}
}

func (e *editor) moveVertically(cur, delta int) {
	line := e.buf.LineAt(cur)
	col := cur - e.buf.LineStartOffset(line)
	target := line + delta
	if target < 0 || target >= e.buf.LineCount() {
		return
	}
	start := e.buf.LineStartOffset(target)
	if max := len(e.buf.LineText(target)); col > max {
		col = max
	}
	e.moveCursor(start + col)
}

func (e *editor) render() {
	e.screen.Clear()
	width, height := e.screen.Size()
	if height < 2 {
		e.screen.Show()
		return
	}
	textRows := height - 1

	cur := e.cursorOffset()
	curLine := e.buf.LineAt(cur)
	if curLine < e.topLine {
		e.topLine = curLine
	}
	if curLine >= e.topLine+textRows {
		e.topLine = curLine - textRows + 1
	}

	for row := 0; row < textRows; row++ {
		line := e.topLine + row
		if line >= e.buf.LineCount() {
			break
		}
		e.renderLine(row, line, width)
	}

	e.renderStatus(height-1, width, cur, curLine)

	col := cur - e.buf.LineStartOffset(curLine)
	e.screen.ShowCursor(col, curLine-e.topLine)
	e.screen.Show()
}

func (e *editor) renderLine(row, line, width int) {
	start := e.buf.LineStartOffset(line)
	text := e.buf.LineText(line)

	x := 0
	for i, r := range text {
		if x >= width {
			break
		}
		e.screen.SetContent(x, row, r, nil, e.styleAt(start+i))
		x++
	}
}

// styleAt picks the cell style for a byte offset from the diagnostics
// covering it; the most severe one wins.
func (e *editor) styleAt(offset int) tcell.Style {
	style := tcell.StyleDefault
	best := diag.Severity(0)
	for _, d := range e.diags.At(offset) {
		if best == 0 || d.Severity < best {
			best = d.Severity
		}
	}
	switch best {
	case diag.SeverityError:
		return style.Foreground(tcell.ColorRed).Underline(true)
	case diag.SeverityWarning:
		return style.Foreground(tcell.ColorYellow).Underline(true)
	case diag.SeverityInformation, diag.SeverityHint:
		return style.Foreground(tcell.ColorTeal)
	default:
		return style
	}
}

func (e *editor) renderStatus(row, width, cur, curLine int) {
	errs, warnings, _, _ := e.diags.Counts()
	status := fmt.Sprintf(" %s  %d:%d  rev %d  marks %d  E%d W%d",
		e.title, curLine+1, cur-e.buf.LineStartOffset(curLine)+1,
		e.buf.Revision(), e.buf.MarkCount(), errs, warnings)

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		e.screen.SetContent(x, row, r, nil, style)
	}
}
