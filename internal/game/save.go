package game

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidSave indicates a save file that does not describe a player.
var ErrInvalidSave = errors.New("invalid save file")

// SaveState writes the player state to a JSON file.
func (e *Engine) SaveState(path string) error {
	out := ""
	var err error
	if out, err = sjson.Set(out, "player.name", e.player.Name); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if out, err = sjson.Set(out, "player.room", e.player.CurrentRoom); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// LoadState restores player state from a JSON save file. The room must
// exist in the current world; otherwise the save is rejected and the player
// is left unchanged.
func (e *Engine) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read save: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidSave)
	}

	doc := gjson.ParseBytes(data)
	name := doc.Get("player.name").String()
	room := doc.Get("player.room").String()
	if name == "" || room == "" {
		return fmt.Errorf("%w: missing player name or room", ErrInvalidSave)
	}
	if _, ok := e.world.Room(room); !ok {
		return fmt.Errorf("%w: unknown room %q", ErrInvalidSave, room)
	}

	e.player.Name = name
	e.player.CurrentRoom = room
	return nil
}

func (e *Engine) saveCommand(args string) Result {
	if args == "" {
		return Errorf("Usage: save <file>")
	}
	if err := e.SaveState(args); err != nil {
		return Errorf("Save failed: %v", err)
	}
	return Success(fmt.Sprintf("Game saved to '%s'.", args))
}
