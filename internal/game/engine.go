// Package game implements the command dispatcher consumed by the session
// loop: a registry of named commands over a small room-based world. The
// session core only depends on the HandleCommand/ShouldQuit contract; this
// package owns the mapping from names to handlers.
package game

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/termquest/internal/game/script"
)

// Status tags a command result.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

// Result is the outcome of one command: a status tag and a message to
// surface in the output log. Errors are ordinary output, never fatal.
type Result struct {
	Status  Status
	Message string
}

// Success builds a success result.
func Success(message string) Result {
	return Result{Status: StatusSuccess, Message: message}
}

// Errorf builds an error result.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// HandlerFunc executes one command against the engine.
type HandlerFunc func(e *Engine, args string) Result

// Command is one registry entry: a name, a usage line, a description for
// help listings, and the handler.
type Command struct {
	Name        string
	Help        string
	Description string
	Handler     HandlerFunc
}

// Player is the acting character.
type Player struct {
	Name        string
	CurrentRoom string
}

// Engine is the command dispatcher. It is not safe for concurrent use; the
// session loop is its only caller.
type Engine struct {
	player   Player
	world    *World
	commands map[string]Command
	hooks    Hooks
	scripts  *script.Runner
	logf     func(format string, args ...any)
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorld replaces the built-in world.
func WithWorld(w *World) Option {
	return func(e *Engine) {
		if w != nil {
			e.world = w
		}
	}
}

// WithHooks installs command and movement hooks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// WithLogf sets the debug log function. The default discards.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) {
		if logf != nil {
			e.logf = logf
		}
	}
}

// New creates an engine for the named player, with all built-in commands
// registered and the player placed in the world's starting room.
func New(playerName string, opts ...Option) *Engine {
	e := &Engine{
		world:    DefaultWorld(),
		commands: make(map[string]Command),
		logf:     func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.player = Player{Name: playerName, CurrentRoom: e.world.Start()}
	e.registerCommands()
	return e
}

// Player returns a copy of the player state.
func (e *Engine) Player() Player {
	return e.player
}

// HandleCommand looks up and executes a command. An unknown name or a
// handler failure is surfaced as an error result, never as a fault.
func (e *Engine) HandleCommand(command, args string) Result {
	entry, ok := e.commands[command]
	if !ok {
		return Errorf("Unknown command: '%s'. Type 'help' for a list of commands.", command)
	}
	return e.invoke(entry, args)
}

// invoke runs a handler with panic recovery so a misbehaving command (a
// script, typically) degrades to an error result.
func (e *Engine) invoke(entry Command, args string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logf("panic in command %q: %v", entry.Name, r)
			result = Errorf("Error executing command '%s'", entry.Name)
		}
	}()
	return entry.Handler(e, args)
}

// ShouldQuit reports whether the command ends the session: the reserved
// exit/quit tokens, or a veto from the pre-command hook.
func (e *Engine) ShouldQuit(command, args string) bool {
	if command == "exit" || command == "quit" {
		return true
	}
	return e.hooks.beforeCommand(command, args)
}

// Close releases the script runtime, if any.
func (e *Engine) Close() {
	if e.scripts != nil {
		e.scripts.Close()
		e.scripts = nil
	}
}

func (e *Engine) registerCommands() {
	e.commands["look"] = Command{
		Name:        "look",
		Help:        "look",
		Description: "Look around and examine your surroundings.",
		Handler:     lookCommand,
	}
	e.commands["get"] = Command{
		Name:        "get",
		Help:        "get <item>",
		Description: "Pick up an item from the current room.",
		Handler: func(_ *Engine, args string) Result {
			return Success(fmt.Sprintf("You pick up the '%s'.", args))
		},
	}
	e.commands["say"] = Command{
		Name:        "say",
		Help:        "say <message>",
		Description: "Speak aloud in the room for others to hear.",
		Handler: func(_ *Engine, args string) Result {
			return Success(fmt.Sprintf("You say: '%s'", args))
		},
	}
	for _, dir := range []string{"north", "south", "east", "west"} {
		direction := dir
		e.commands[direction] = Command{
			Name:        direction,
			Help:        direction,
			Description: fmt.Sprintf("Move to the %s if possible.", direction),
			Handler: func(eng *Engine, _ string) Result {
				return eng.move(direction)
			},
		}
	}
	e.commands["exit"] = Command{
		Name:        "exit",
		Help:        "exit",
		Description: "Exit the game.",
		Handler: func(_ *Engine, _ string) Result {
			return Success("Exiting game...")
		},
	}
	e.commands["quit"] = Command{
		Name:        "quit",
		Help:        "quit",
		Description: "Exit the game.",
		Handler:     e.commands["exit"].Handler,
	}
	e.commands["help"] = Command{
		Name:        "help",
		Help:        "help [command]",
		Description: "Display help for all commands or a specific command.",
		Handler: func(eng *Engine, args string) Result {
			return eng.helpCommand(args)
		},
	}
	e.commands["save"] = Command{
		Name:        "save",
		Help:        "save <file>",
		Description: "Save the player state to a file.",
		Handler: func(eng *Engine, args string) Result {
			return eng.saveCommand(args)
		},
	}
}

func lookCommand(e *Engine, _ string) Result {
	roomName := e.player.CurrentRoom
	if roomName == "" {
		roomName = "an unknown location"
	}
	response := fmt.Sprintf("You are in: %s\n\n", roomName)
	if room, ok := e.world.Room(e.player.CurrentRoom); ok && room.Description != "" {
		response += room.Description
	} else {
		response += "This area has not been fully explored yet. There are exits in various directions."
	}
	return Success(response)
}

// move attempts to take the exit in the given direction, honoring the
// movement hook.
func (e *Engine) move(direction string) Result {
	if e.hooks.beforeMove(e.player.Name, direction) {
		return Success(fmt.Sprintf("You feel a mysterious force preventing you from moving %s.", direction))
	}
	dest, ok := e.world.Exit(e.player.CurrentRoom, direction)
	if !ok {
		return Success("You can't go that way.")
	}
	e.player.CurrentRoom = dest
	return Success(fmt.Sprintf("You move %s into %s.", direction, dest))
}

func (e *Engine) helpCommand(args string) Result {
	if args == "" {
		names := make([]string, 0, len(e.commands))
		for name := range e.commands {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("Available commands:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s - %s\n", name, e.commands[name].Description)
		}
		return Success(b.String())
	}

	entry, ok := e.commands[args]
	if !ok {
		return Errorf("Unknown command: '%s'. Type 'help' for a list of commands.", args)
	}
	return Success(fmt.Sprintf("%s - %s\nUsage: %s\n%s",
		entry.Name, entry.Help, entry.Help, entry.Description))
}

// RegisterScripts loads every *.lua file in dir as a command named after
// the file. A script that fails to load is logged and skipped; the engine
// keeps its built-ins either way.
func (e *Engine) RegisterScripts(dir string) error {
	if e.scripts == nil {
		runner, err := script.NewRunner()
		if err != nil {
			return err
		}
		e.scripts = runner
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".lua")
		if err := e.loadScriptCommand(name, path); err != nil {
			e.logf("skipping script %q: %v", path, err)
		}
	}
	return nil
}

// loadScriptCommand registers one script-backed command, replacing any
// built-in of the same name.
func (e *Engine) loadScriptCommand(name, path string) error {
	if err := e.scripts.Load(name, path); err != nil {
		return err
	}

	help, err := e.scripts.Help(name)
	if err != nil || help == "" {
		help = name
	}
	desc, err := e.scripts.Description(name)
	if err != nil || desc == "" {
		desc = "Script command"
	}

	e.commands[name] = Command{
		Name:        name,
		Help:        help,
		Description: desc,
		Handler: func(eng *Engine, args string) Result {
			out, err := eng.scripts.Run(name, args)
			if err != nil {
				return Errorf("Script error: %v", err)
			}
			return Success(out)
		},
	}
	return nil
}
