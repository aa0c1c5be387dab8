package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/stanza-edit/stanza/internal/engine/buffer"
	"github.com/stanza-edit/stanza/internal/engine/marks"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "marks"

// Loader returns the module loader for the given buffer, suitable for
// lua.LState.PreloadModule. Each loaded module is bound to one buffer.
func Loader(buf *buffer.Buffer) lua.LGFunction {
	m := &module{buf: buf}
	return func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"place":  m.place,
			"range":  m.rangeOf,
			"remove": m.remove,
			"list":   m.list,
			"len":    m.length,
			"text":   m.text,
		})
		L.Push(mod)
		return 1
	}
}

type module struct {
	buf *buffer.Buffer
}

// place(offset [, opts]) -> id
//
// opts is a table with optional fields: width (number), start_bias and
// end_bias ("left" or "right").
func (m *module) place(L *lua.LState) int {
	offset := L.CheckInt(1)

	var opts []marks.MarkOption
	if L.GetTop() >= 2 {
		t := L.CheckTable(2)
		if w := t.RawGetString("width"); w != lua.LNil {
			n, ok := w.(lua.LNumber)
			if !ok {
				L.ArgError(2, "width must be a number")
			}
			opts = append(opts, marks.WithWidth(int(n)))
		}
		if b, ok := checkBias(L, t, "start_bias"); ok {
			opts = append(opts, marks.WithStartBias(b))
		}
		if b, ok := checkBias(L, t, "end_bias"); ok {
			opts = append(opts, marks.WithEndBias(b))
		}
	}

	id, err := m.buf.PlaceMark(offset, opts...)
	if err != nil {
		L.RaiseError("place: %s", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

func checkBias(L *lua.LState, t *lua.LTable, field string) (marks.Bias, bool) {
	v := t.RawGetString(field)
	if v == lua.LNil {
		return 0, false
	}
	switch lua.LVAsString(v) {
	case "left":
		return marks.BiasLeft, true
	case "right":
		return marks.BiasRight, true
	default:
		L.ArgError(2, field+` must be "left" or "right"`)
		return 0, false
	}
}

// range(id) -> start, end | nil
func (m *module) rangeOf(L *lua.LState) int {
	id := marks.ID(L.CheckInt(1))
	r, ok := m.buf.Mark(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 2
}

// remove(id) -> bool
func (m *module) remove(L *lua.LState) int {
	id := marks.ID(L.CheckInt(1))
	L.Push(lua.LBool(m.buf.RemoveMark(id)))
	return 1
}

// list([start, end]) -> { {id=, start=, end=}, ... }
//
// Without arguments the whole buffer is listed.
func (m *module) list(L *lua.LState) int {
	var ms []marks.Mark
	if L.GetTop() >= 2 {
		ms = m.buf.MarksIn(marks.NewRange(L.CheckInt(1), L.CheckInt(2)))
	} else {
		ms = m.buf.Marks()
	}

	out := L.NewTable()
	for _, mk := range ms {
		entry := L.NewTable()
		entry.RawSetString("id", lua.LNumber(mk.ID))
		entry.RawSetString("start", lua.LNumber(mk.Range.Start))
		entry.RawSetString("end", lua.LNumber(mk.Range.End))
		out.Append(entry)
	}
	L.Push(out)
	return 1
}

// len() -> number
func (m *module) length(L *lua.LState) int {
	L.Push(lua.LNumber(m.buf.Len()))
	return 1
}

// text(start, end) -> string
func (m *module) text(L *lua.LState) int {
	start, end := L.CheckInt(1), L.CheckInt(2)
	if start < 0 || start > end || end > m.buf.Len() {
		L.RaiseError("text: range %d..%d out of bounds", start, end)
	}
	L.Push(lua.LString(m.buf.TextRange(start, end)))
	return 1
}
