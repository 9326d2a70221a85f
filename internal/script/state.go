// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package script runs console commands written in Lua.
package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

type library struct {
	name string
	fn   lua.LGFunction
}

// safeLibraries are the only libraries a script state opens.
// os, io, debug, and package stay closed.
func safeLibraries() []library {
	return []library{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// blockedGlobals are base functions that reach the filesystem or compile
// arbitrary code.
var blockedGlobals = []string{"dofile", "loadfile", "loadstring", "load", "require"}

// StateFactory creates sandboxed Lua states.
type StateFactory struct {
	libraries []library
	logger    *slog.Logger
}

// NewStateFactory creates a factory whose states log through logger.
// A nil logger uses slog.Default().
func NewStateFactory(logger *slog.Logger) *StateFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateFactory{libraries: safeLibraries(), logger: logger}
}

// NewState creates a fresh state bound to ctx. print writes to out, and
// log(msg) writes an info record tagged with the script name.
func (f *StateFactory) NewState(ctx context.Context, name string, out io.Writer) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.Code(CodeScriptError).
				With("library", lib.name).
				Wrapf(err, "open library %s", lib.name)
		}
	}

	for _, g := range blockedGlobals {
		L.SetGlobal(g, lua.LNil)
	}

	if out == nil {
		out = io.Discard
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(out, strings.Join(parts, "\t")) //nolint:errcheck // best-effort console output
		return 0
	}))

	logger := f.logger.With("script", name)
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		logger.InfoContext(ctx, L.CheckString(1))
		return 0
	}))

	if ctx != nil {
		L.SetContext(ctx)
	}
	return L, nil
}
