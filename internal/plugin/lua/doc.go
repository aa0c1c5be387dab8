// Package lua exposes buffer marks to plugin scripts.
//
// Plugins load the module with require("marks") after the host preloads it
// for a buffer. The module lets a script anchor annotations that survive
// edits made by the user or by other plugins, without the script tracking
// positions itself:
//
//	local marks = require("marks")
//
//	-- highlight a word; the id stays valid across edits
//	local id = marks.place(120, { width = 5 })
//
//	-- later: where did it move?
//	local s, e = marks.range(id)
//	if s then print("now at", s, e) end
//
// Offsets are zero-based byte positions, half-open ranges, matching the
// engine. Lua-side errors follow Lua conventions: bad arguments raise,
// lookups that find nothing return nil.
package lua
