// Package parser reads the coordinator's level description.
//
// A level is a sequence of sections, each introduced by a line starting
// with '#': #domain, #levelname, #colors, #initial, #goal and #end.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdrpinto/searchclient"
)

var ErrMalformedLevel = errors.New("malformed level")

// Level is a parsed level: its name, the run-constant context and the
// initial state.
type Level struct {
	Domain  string
	Name    string
	Context *searchclient.Level
	Initial *searchclient.State
}

type lineReader struct {
	r    *bufio.Reader
	line int
}

func (lr *lineReader) next() (string, error) {
	text, err := lr.r.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		if err == io.EOF {
			return "", fmt.Errorf("%w: unexpected end of input after line %d", ErrMalformedLevel, lr.line)
		}
		return "", err
	}
	lr.line++
	return strings.TrimRight(text, "\r\n"), nil
}

func (lr *lineReader) expect(header string) error {
	line, err := lr.next()
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) != header {
		return fmt.Errorf("%w: line %d: expected %s, got %q", ErrMalformedLevel, lr.line, header, line)
	}
	return nil
}

// Parse reads one level from r. It stops right after the #end line so the
// same reader can carry the rest of the conversation.
func Parse(r *bufio.Reader) (*Level, error) {
	lr := &lineReader{r: r}
	parsed := &Level{}

	if err := lr.expect("#domain"); err != nil {
		return nil, err
	}
	domain, err := lr.next()
	if err != nil {
		return nil, err
	}
	parsed.Domain = strings.TrimSpace(domain)

	if err := lr.expect("#levelname"); err != nil {
		return nil, err
	}
	name, err := lr.next()
	if err != nil {
		return nil, err
	}
	parsed.Name = strings.TrimSpace(name)

	if err := lr.expect("#colors"); err != nil {
		return nil, err
	}
	var (
		agentColors [searchclient.MaxAgents]searchclient.Color
		boxColors   [searchclient.MaxBoxes]searchclient.Color
	)
	line, err := lr.next()
	for ; err == nil && !strings.HasPrefix(line, "#"); line, err = lr.next() {
		if err := parseColorLine(line, &agentColors, &boxColors); err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(line) != "#initial" {
		return nil, fmt.Errorf("%w: line %d: expected #initial, got %q", ErrMalformedLevel, lr.line, line)
	}
	initialRows, line, err := readGrid(lr)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) != "#goal" {
		return nil, fmt.Errorf("%w: line %d: expected #goal, got %q", ErrMalformedLevel, lr.line, line)
	}
	goalRows, line, err := readGrid(lr)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(line) != "#end" {
		return nil, fmt.Errorf("%w: line %d: expected #end, got %q", ErrMalformedLevel, lr.line, line)
	}

	rows := len(initialRows)
	cols := 0
	for _, row := range initialRows {
		cols = max(cols, len(row))
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty initial grid", ErrMalformedLevel)
	}
	if len(goalRows) > rows {
		return nil, fmt.Errorf("%w: goal grid has %d rows, initial grid has %d", ErrMalformedLevel, len(goalRows), rows)
	}

	walls := make([]bool, rows*cols)
	boxes := make([]byte, rows*cols)
	var agents [searchclient.MaxAgents]searchclient.Position
	var seen [searchclient.MaxAgents]bool
	numAgents := 0
	for row, text := range initialRows {
		for col := 0; col < len(text); col++ {
			c := text[col]
			switch {
			case searchclient.IsAgentDigit(c):
				id := int(c - '0')
				if seen[id] {
					return nil, fmt.Errorf("%w: agent %c appears twice", ErrMalformedLevel, c)
				}
				seen[id] = true
				agents[id] = searchclient.Position{Row: row, Col: col}
				numAgents++
			case searchclient.IsBoxLetter(c):
				boxes[row*cols+col] = c
			case c == '+':
				walls[row*cols+col] = true
			}
		}
	}
	for id := 0; id < numAgents; id++ {
		if !seen[id] {
			return nil, fmt.Errorf("%w: agents must be numbered from 0 without gaps, agent %d is missing", ErrMalformedLevel, id)
		}
	}

	goals := make([]byte, rows*cols)
	for row, text := range goalRows {
		if len(text) > cols {
			return nil, fmt.Errorf("%w: goal row %d is wider than the initial grid", ErrMalformedLevel, row)
		}
		for col := 0; col < len(text); col++ {
			if c := text[col]; searchclient.IsAgentDigit(c) || searchclient.IsBoxLetter(c) {
				goals[row*cols+col] = c
			}
		}
	}

	levelContext, err := searchclient.NewLevel(searchclient.LevelSpec{
		Rows:        rows,
		Cols:        cols,
		Walls:       walls,
		Goals:       goals,
		AgentColors: agentColors[:numAgents],
		BoxColors:   boxColors,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLevel, err)
	}
	initial, err := searchclient.NewState(levelContext, agents[:numAgents], boxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLevel, err)
	}

	parsed.Context = levelContext
	parsed.Initial = initial
	return parsed, nil
}

func parseColorLine(line string, agentColors *[searchclient.MaxAgents]searchclient.Color, boxColors *[searchclient.MaxBoxes]searchclient.Color) error {
	name, entities, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("%w: color line %q has no ':'", ErrMalformedLevel, line)
	}
	color, ok := searchclient.ParseColor(name)
	if !ok {
		return fmt.Errorf("%w: unknown color %q", ErrMalformedLevel, strings.TrimSpace(name))
	}
	for _, entity := range strings.Split(entities, ",") {
		entity = strings.TrimSpace(entity)
		if len(entity) != 1 {
			return fmt.Errorf("%w: invalid entity %q", ErrMalformedLevel, entity)
		}
		switch c := entity[0]; {
		case searchclient.IsAgentDigit(c):
			agentColors[c-'0'] = color
		case searchclient.IsBoxLetter(c):
			boxColors[c-'A'] = color
		default:
			return fmt.Errorf("%w: invalid entity %q", ErrMalformedLevel, entity)
		}
	}
	return nil
}

// readGrid collects lines up to the next section header and returns them
// together with that header.
func readGrid(lr *lineReader) ([]string, string, error) {
	var rows []string
	for {
		line, err := lr.next()
		if err != nil {
			return nil, "", err
		}
		if strings.HasPrefix(line, "#") {
			return rows, line, nil
		}
		rows = append(rows, line)
	}
}
