// Package script runs user Lua scripts against an editor. A script
// gets a `scribe` module exposing the public mutation API; everything
// it does lands in one transaction, so a script is one undo step and
// one notification. The Lua state is sandboxed: file, shell and
// load-time code execution primitives are removed.
package script

import (
	"errors"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dhollis/scribe/internal/editor"
	"github.com/dhollis/scribe/internal/engine/block"
)

// ErrScript wraps Lua runtime and compile failures.
var ErrScript = errors.New("script failed")

// Runner executes Lua scripts against one editor.
type Runner struct {
	ed *editor.Editor
}

// NewRunner creates a runner bound to the given editor.
func NewRunner(ed *editor.Editor) *Runner {
	return &Runner{ed: ed}
}

// RunFile loads and executes the script at path.
func (r *Runner) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return r.Run(string(src))
}

// Run executes the script source inside a single editor transaction.
func (r *Runner) Run(src string) error {
	var scriptErr error
	r.ed.Apply(func(tx *editor.Tx) {
		L := lua.NewState(lua.Options{SkipOpenLibs: false})
		defer L.Close()
		sandbox(L)
		L.PreloadModule("scribe", moduleLoader(tx))

		if err := L.DoString(src); err != nil {
			scriptErr = fmt.Errorf("%w: %v", ErrScript, err)
		}
	})
	return scriptErr
}

// sandbox strips primitives that reach outside the editor.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
}

// moduleLoader builds the scribe module bound to a transaction.
func moduleLoader(tx *editor.Tx) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"text": func(L *lua.LState) int {
				L.Push(lua.LString(tx.Text()))
				return 1
			},
			"offset": func(L *lua.LState) int {
				L.Push(lua.LNumber(tx.Offset()))
				return 1
			},
			"insert": func(L *lua.LState) int {
				tx.Insert(L.CheckString(1), L.CheckInt(2))
				return 0
			},
			"delete": func(L *lua.LState) int {
				tx.Delete(L.CheckInt(1), L.CheckInt(2))
				return 0
			},
			"replace": func(L *lua.LState) int {
				tx.Replace(L.CheckInt(1), L.CheckInt(2), L.CheckString(3))
				return 0
			},
			"replace_text": func(L *lua.LState) int {
				ok := tx.ReplaceText(L.CheckString(1), L.CheckString(2))
				L.Push(lua.LBool(ok))
				return 1
			},
			"replace_all": func(L *lua.LState) int {
				n := tx.ReplaceAll(L.CheckString(1), L.CheckString(2))
				L.Push(lua.LNumber(n))
				return 1
			},
			"style_text": func(L *lua.LState) int {
				style := styleFromTable(L, 3)
				ok := tx.StyleText(L.CheckString(1), L.CheckString(2), style)
				L.Push(lua.LBool(ok))
				return 1
			},
			"clear": func(L *lua.LState) int {
				tx.Clear()
				return 0
			},
			"undo": func(L *lua.LState) int {
				L.Push(lua.LBool(tx.Undo()))
				return 1
			},
			"set_offset": func(L *lua.LState) int {
				tx.SetOffset(L.CheckInt(1))
				return 0
			},
		})
		L.Push(mod)
		return 1
	}
}

// styleFromTable converts an optional Lua table argument into a
// StyleMap. Non-string values are rendered with Lua semantics.
func styleFromTable(L *lua.LState, idx int) block.StyleMap {
	v := L.Get(idx)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	style := make(block.StyleMap)
	tbl.ForEach(func(k, v lua.LValue) {
		style[k.String()] = v.String()
	})
	if len(style) == 0 {
		return nil
	}
	return style
}
