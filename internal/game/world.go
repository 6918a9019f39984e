package game

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// World JSON loading errors.
var (
	ErrInvalidWorld = errors.New("invalid world definition")
)

// Room is one location in the world.
type Room struct {
	Name        string
	Description string
	// Exits maps a direction to the destination room name.
	Exits map[string]string
}

// World is the set of rooms and the starting location.
type World struct {
	rooms map[string]*Room
	start string
}

// DefaultWorld returns the built-in two-room world used when no world file
// is supplied.
func DefaultWorld() *World {
	w := &World{rooms: make(map[string]*Room), start: "Start Room"}
	w.rooms["Start Room"] = &Room{
		Name: "Start Room",
		Description: "This is the starting area, a simple room with stone walls and a wooden floor. " +
			"There's a door leading north and a small window on the east wall.",
		Exits: map[string]string{"north": "North Room"},
	}
	w.rooms["North Room"] = &Room{
		Name: "North Room",
		Description: "This is a larger chamber with a high ceiling. Dusty tapestries hang on the walls, " +
			"and there's an old desk in the corner. The exit to the south leads back to the starting room.",
		Exits: map[string]string{"south": "Start Room"},
	}
	return w
}

// LoadWorld reads a world definition from a JSON file of the form
//
//	{"start": "Start Room",
//	 "rooms": [{"name": ..., "description": ..., "exits": {"north": ...}}]}
//
// Every room must have a name; the start room must exist.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidWorld, path)
	}

	doc := gjson.ParseBytes(data)
	w := &World{rooms: make(map[string]*Room)}

	for _, roomVal := range doc.Get("rooms").Array() {
		name := roomVal.Get("name").String()
		if name == "" {
			return nil, fmt.Errorf("%w: room without a name", ErrInvalidWorld)
		}
		room := &Room{
			Name:        name,
			Description: roomVal.Get("description").String(),
			Exits:       make(map[string]string),
		}
		roomVal.Get("exits").ForEach(func(dir, dest gjson.Result) bool {
			room.Exits[dir.String()] = dest.String()
			return true
		})
		w.rooms[name] = room
	}

	if len(w.rooms) == 0 {
		return nil, fmt.Errorf("%w: no rooms defined", ErrInvalidWorld)
	}

	w.start = doc.Get("start").String()
	if w.start == "" {
		return nil, fmt.Errorf("%w: no start room", ErrInvalidWorld)
	}
	if _, ok := w.rooms[w.start]; !ok {
		return nil, fmt.Errorf("%w: start room %q not defined", ErrInvalidWorld, w.start)
	}
	return w, nil
}

// Start returns the starting room name.
func (w *World) Start() string {
	return w.start
}

// Room looks up a room by name.
func (w *World) Room(name string) (*Room, bool) {
	r, ok := w.rooms[name]
	return r, ok
}

// Exit resolves a movement from a room in the given direction, returning
// the destination room name.
func (w *World) Exit(from, direction string) (string, bool) {
	room, ok := w.rooms[from]
	if !ok {
		return "", false
	}
	dest, ok := room.Exits[direction]
	if !ok {
		return "", false
	}
	if _, ok := w.rooms[dest]; !ok {
		return "", false
	}
	return dest, true
}
