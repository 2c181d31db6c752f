package collector

import (
	"context"
	"errors"
	"strconv"
)

var errNegative = errors.New("must not be negative")

// fieldState is the state of one numeric prompt.
type fieldState int

const (
	stateAwaiting fieldState = iota // prompt shown, waiting for a line
	stateInvalid                    // last answer rejected, message pending
	stateValid                      // answer accepted
)

// countField is a prompt for a non-negative integer.
type countField struct {
	label   string
	invalid string
}

var (
	speedField = countField{
		label:   "Average Speed (km/h): ",
		invalid: "Enter a valid number for speed.",
	}
	brakesField = countField{
		label:   "Number of Hard Braking Events: ",
		invalid: "Enter a valid number for hard brakes.",
	}
)

// read asks until the answer parses as a non-negative integer. There is
// no retry limit; only input errors end the loop.
func (f countField) read(ctx context.Context, p *prompter) (int, error) {
	var value int
	state := stateAwaiting
	for state != stateValid {
		switch state {
		case stateAwaiting:
			line, err := p.ask(ctx, f.label)
			if err != nil {
				return 0, err
			}
			n, err := parseCount(line)
			if err != nil {
				state = stateInvalid
				continue
			}
			value, state = n, stateValid
		case stateInvalid:
			p.say(f.invalid)
			state = stateAwaiting
		}
	}
	return value, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}
