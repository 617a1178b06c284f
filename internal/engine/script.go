package engine

import (
	"context"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/tokf/tokf/internal/filterdef"
)

// scriptBudget bounds how long one lua_script evaluation may run before it
// is treated as a runtime error (§5 "a script should not be able to
// allocate unboundedly without eventual detection").
const scriptBudget = 500 * time.Millisecond

// RunScript evaluates script's source with the pinned globals output,
// exit_code, args (§4.6). A string return terminates the remaining
// pipeline; no return (or any error) continues it, with errors recorded to
// diag (§7 kind 3).
func RunScript(script *filterdef.LuaScript, scope *Scope, diag *Diagnostics) (result string, terminated bool) {
	L := newSandboxedState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), scriptBudget)
	defer cancel()
	L.SetContext(ctx)

	bindScriptGlobals(L, scope)

	fn, err := L.LoadString(script.Source)
	if err != nil {
		diag.add(DiagScriptError, "script", err.Error())
		return "", false
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		diag.add(DiagScriptError, "script", err.Error())
		return "", false
	}

	ret := L.Get(-1)
	L.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

// newSandboxedState returns an interpreter with only the base, string, and
// table libraries registered (§4.6 "Host I/O, process control, and dynamic
// loading facilities are not exposed") — deliberately not L.OpenLibs(),
// which would also wire up os/io/package/coroutine.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(pair.fn))
		L.Push(lua.LString(pair.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// bindScriptGlobals pins output, exit_code, args into L per §4.6.
func bindScriptGlobals(L *lua.LState, scope *Scope) {
	output, _ := scope.Lookup("output")
	exitCode, _ := scope.Lookup("exit_code")
	args, _ := scope.Lookup("args")

	exitCodeNum, _ := exitCode.AsInt()
	L.SetGlobal("output", lua.LString(output.String()))
	L.SetGlobal("exit_code", lua.LNumber(exitCodeNum))

	tbl := L.NewTable()
	if elems, ok := args.AsColl(); ok {
		for i, e := range elems {
			tbl.RawSetInt(i+1, lua.LString(e.String()))
		}
	}
	L.SetGlobal("args", tbl)
}
