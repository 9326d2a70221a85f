// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/examplemodule/internal/command"
)

// CodeScriptError marks Lua load and runtime failures.
const CodeScriptError = "SCRIPT_ERROR"

// Source is the command source recorded for script commands.
const Source = "script"

// entryPoint is the global every script must define.
const entryPoint = "on_command"

// Script is a compiled-on-demand Lua command.
type Script struct {
	name    string
	code    string
	factory *StateFactory
}

// Load reads path and checks that it compiles and defines on_command.
func Load(ctx context.Context, factory *StateFactory, name, path string) (*Script, error) {
	code, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.Code(CodeScriptError).
			With("script", name).
			With("path", path).
			Wrapf(err, "read script")
	}
	return New(ctx, factory, name, string(code))
}

// New validates code in a throwaway state.
func New(ctx context.Context, factory *StateFactory, name, code string) (*Script, error) {
	L, err := factory.NewState(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	defer L.Close()

	if err := L.DoString(code); err != nil {
		return nil, oops.Code(CodeScriptError).With("script", name).Wrapf(err, "syntax error")
	}
	if L.GetGlobal(entryPoint).Type() != lua.LTFunction {
		return nil, oops.Code(CodeScriptError).
			With("script", name).
			Errorf("script %s does not define %s", name, entryPoint)
	}

	return &Script{name: name, code: code, factory: factory}, nil
}

// Name returns the script's command name.
func (s *Script) Name() string {
	return s.name
}

// Command builds a router command that runs the script.
func (s *Script) Command(help string, args []command.ArgumentSpec) command.Command {
	return command.Command{
		Name:    s.name,
		Help:    help,
		Args:    args,
		Handler: s.handler(args),
		Source:  Source,
	}
}

// handler runs each invocation in a fresh state. Declared integer and float
// arguments are converted before the call; the rest pass as strings.
func (s *Script) handler(specs []command.ArgumentSpec) command.Handler {
	return func(ctx context.Context, inv *command.Invocation) error {
		L, err := s.factory.NewState(ctx, s.name, inv.Output)
		if err != nil {
			return err
		}
		defer L.Close()

		if err := L.DoString(s.code); err != nil {
			return oops.Code(CodeScriptError).With("script", s.name).Wrapf(err, "load script")
		}

		argv := L.NewTable()
		for i, raw := range inv.Args {
			// Padding for missing arguments reaches Lua as nil.
			if raw == "" {
				continue
			}
			v, err := convertArg(inv, specs, i, raw)
			if err != nil {
				return err
			}
			argv.Append(v)
		}

		if err := L.CallByParam(lua.P{
			Fn:      L.GetGlobal(entryPoint),
			NRet:    1,
			Protect: true,
		}, argv); err != nil {
			return oops.Code(CodeScriptError).With("script", s.name).Wrapf(err, "%s failed", entryPoint)
		}

		ret := L.Get(-1)
		L.Pop(1)
		if ret.Type() == lua.LTNil {
			return nil
		}
		_, err = fmt.Fprintln(inv.Output, L.ToStringMeta(ret).String())
		return err
	}
}

func convertArg(inv *command.Invocation, specs []command.ArgumentSpec, i int, raw string) (lua.LValue, error) {
	if i >= len(specs) {
		return lua.LString(raw), nil
	}
	switch specs[i].Type {
	case command.ArgInteger:
		n, err := inv.Int(i)
		if err != nil {
			return nil, err
		}
		return lua.LNumber(n), nil
	case command.ArgFloat:
		f, err := inv.Float(i)
		if err != nil {
			return nil, err
		}
		return lua.LNumber(f), nil
	default:
		return lua.LString(raw), nil
	}
}
