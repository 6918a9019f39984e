// Package script runs Lua-defined commands. A script file evaluates to a
// table with a run(args) function plus optional help and description
// strings; the engine registers one command per loaded script.
package script

import (
	"errors"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Script runner errors.
var (
	// ErrScriptNotFound indicates no script is loaded under that name.
	ErrScriptNotFound = errors.New("script not found")

	// ErrInvalidScript indicates the script did not evaluate to a table
	// with a run function.
	ErrInvalidScript = errors.New("invalid script: expected a table with a run function")

	// ErrRunnerClosed is returned when using a closed runner.
	ErrRunnerClosed = errors.New("script runner is closed")
)

// Runner owns a single Lua state and the scripts loaded into it.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all
// access, and Lua execution itself is single-threaded.
type Runner struct {
	mu      sync.Mutex
	state   *lua.LState
	scripts map[string]*lua.LTable
	closed  bool
}

// NewRunner creates a runner with only the safe Lua standard libraries
// opened. io, os, debug, and package stay closed: command scripts have no
// business touching the file system or loading modules.
func NewRunner() (*Runner, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(state)
	return &Runner{
		state:   state,
		scripts: make(map[string]*lua.LTable),
	}, nil
}

func openSafeLibraries(state *lua.LState) {
	lua.OpenBase(state)
	lua.OpenTable(state)
	lua.OpenString(state)
	lua.OpenMath(state)
}

// Load evaluates a script file and stores its table under name. Loading a
// name twice replaces the previous script.
func (r *Runner) Load(name, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("script file %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	var table *lua.LTable
	err := r.doWithRecovery(func() error {
		top := r.state.GetTop()
		defer r.state.SetTop(top)

		if err := r.state.DoFile(path); err != nil {
			return err
		}
		ret := r.state.Get(-1)
		tbl, ok := ret.(*lua.LTable)
		if !ok {
			return ErrInvalidScript
		}
		if _, ok := tbl.RawGetString("run").(*lua.LFunction); !ok {
			return ErrInvalidScript
		}
		table = tbl
		return nil
	})
	if err != nil {
		return err
	}

	r.scripts[name] = table
	return nil
}

// Run executes the named script's run function with args and returns its
// string result.
func (r *Runner) Run(name, args string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrRunnerClosed
	}
	table, ok := r.scripts[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}

	fn, ok := table.RawGetString("run").(*lua.LFunction)
	if !ok {
		return "", ErrInvalidScript
	}

	var out string
	err := r.doWithRecovery(func() error {
		if err := r.state.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, lua.LString(args)); err != nil {
			return err
		}
		ret := r.state.Get(-1)
		r.state.Pop(1)
		out = lua.LVAsString(ret)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// Help returns the script's help string, if it defines one.
func (r *Runner) Help(name string) (string, error) {
	return r.field(name, "help")
}

// Description returns the script's description string, if it defines one.
func (r *Runner) Description(name string) (string, error) {
	return r.field(name, "description")
}

func (r *Runner) field(name, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrRunnerClosed
	}
	table, ok := r.scripts[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}
	if s, ok := table.RawGetString(key).(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}

// Names returns the loaded script names.
func (r *Runner) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	return names
}

// Close releases the Lua state. Safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// doWithRecovery converts a Lua panic into an error. Called with the lock
// held.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch v := rec.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("lua panic: %v", v)
			}
		}
	}()
	return fn()
}
