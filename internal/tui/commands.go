package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a parsed line of user input.
type Command struct {
	Name string
	Args []string
}

var aliases = map[string]string{
	"f":      "flip",
	"p":      "push",
	"y":      "yes",
	"n":      "no",
	"exit":   "quit",
	"q":      "quit",
	"?":      "help",
	"h":      "help",
	"cards":  "catalog",
	"new":    "reset",
	"logoff": "logout",
}

var known = map[string]bool{
	"push": true, "pop": true, "peek": true, "clear": true, "quick": true,
	"start": true, "flip": true, "pause": true, "resume": true, "reset": true,
	"name": true, "logout": true, "yes": true, "no": true,
	"catalog": true, "help": true, "quit": true,
}

// ParseCommand parses a line of input. A bare number is shorthand for
// flipping that card, and a leading slash is ignored.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("type a command, or 'help'")
	}

	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	if _, err := strconv.Atoi(name); err == nil {
		return Command{Name: "flip", Args: []string{name}}, nil
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if !known[name] {
		return Command{}, fmt.Errorf("unknown command %q, try 'help'", name)
	}

	switch name {
	case "push":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: push <card id or name>")
		}
		args = []string{strings.Join(args, " ")}
	case "flip":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: flip <position>")
		}
	case "name":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("usage: name <player name>")
		}
		args = []string{strings.Join(args, " ")}
	}

	return Command{Name: name, Args: args}, nil
}

// Position returns the zero-based board position for a one-based argument.
func (c Command) Position() (int, error) {
	if len(c.Args) == 0 {
		return 0, fmt.Errorf("missing position")
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("position must be a positive number, got %q", c.Args[0])
	}
	return n - 1, nil
}

// helpLines is shown by the help command and at startup.
var helpLines = []string{
	"Commands:",
	"  push <id|name>  put a card on the stack      pop     remove the top card",
	"  peek            show the top card            clear   empty the stack",
	"  quick           fill the stack with random cards",
	"  start           start a round                flip N  turn over card N (or just N)",
	"  pause / resume  pause or resume the round    reset   abandon the round",
	"  name <name>     set your player name         logout  forget your name",
	"  catalog         list available cards         quit    leave the game",
	"  yes / no        answer a confirmation prompt",
}
