package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"monopoly/internal/network"
)

// ErrQuit is returned by Next when the user asks to leave
var ErrQuit = errors.New("quit")

// ErrUnknownCommand is returned for input that maps to no action
var ErrUnknownCommand = errors.New("unknown command")

// InputHandler turns terminal lines into protocol messages
type InputHandler struct {
	scanner *bufio.Scanner
	display *Display
}

// NewInputHandler reads commands from in
func NewInputHandler(in io.Reader, display *Display) *InputHandler {
	return &InputHandler{
		scanner: bufio.NewScanner(in),
		display: display,
	}
}

// GetName prompts until a non-empty name is entered
func (ih *InputHandler) GetName() (string, error) {
	for {
		fmt.Fprint(ih.display.out, "Enter your name: ")
		if !ih.scanner.Scan() {
			if err := ih.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		name := strings.TrimSpace(ih.scanner.Text())
		if name == "" {
			ih.display.PrintWarning("Name cannot be empty")
			continue
		}
		if len([]rune(name)) > 32 {
			ih.display.PrintWarning("Name must be no more than 32 characters long")
			continue
		}
		return name, nil
	}
}

// Next blocks for the next valid command. Unknown input is reported and skipped.
func (ih *InputHandler) Next() (network.Message, error) {
	for ih.scanner.Scan() {
		line := strings.TrimSpace(ih.scanner.Text())
		if line == "" {
			continue
		}
		msg, err := ParseCommand(line)
		switch {
		case err == nil:
			return msg, nil
		case errors.Is(err, ErrQuit):
			return network.Message{}, err
		case line == "help" || line == "h" || line == "?":
			ih.PrintHelp()
		default:
			ih.display.PrintWarning(fmt.Sprintf("%v, type help for the list", err))
		}
	}
	if err := ih.scanner.Err(); err != nil {
		return network.Message{}, err
	}
	return network.Message{}, ErrQuit
}

// ParseCommand maps a typed command to the message it sends
func ParseCommand(line string) (network.Message, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "roll", "r":
		return network.Bare(network.ActionRoll), nil
	case "buy", "b", "y":
		return network.Bare(network.ActionBuy), nil
	case "skip", "s", "n":
		return network.Bare(network.ActionSkipBuy), nil
	case "buyall":
		return network.Bare(network.ActionBuyAll), nil
	case "quit", "q", "exit":
		return network.Message{}, ErrQuit
	}
	return network.Message{}, fmt.Errorf("%w %q", ErrUnknownCommand, line)
}

// PrintHelp lists the commands
func (ih *InputHandler) PrintHelp() {
	ih.display.PrintInfo("commands: roll (r), buy (b), skip (s), buyall, quit (q)")
}
