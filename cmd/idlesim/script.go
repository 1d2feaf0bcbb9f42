package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cory-johannsen/idlerpg/internal/game/command"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// scriptStep is one "@<ms> <command>" line. An empty command means step only.
type scriptStep struct {
	line    int
	offset  int64
	command string
}

// parseScript reads a simulation script. Offsets are milliseconds after the
// simulation start and must not decrease.
func parseScript(r io.Reader) ([]scriptStep, error) {
	var steps []scriptStep
	sc := bufio.NewScanner(r)
	lineNo := 0
	prev := int64(0)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "@") {
			return nil, fmt.Errorf("line %d: expected @<ms>, got %q", lineNo, line)
		}
		at, rest, _ := strings.Cut(line[1:], " ")
		offset, err := strconv.ParseInt(at, 10, 64)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("line %d: invalid offset %q", lineNo, at)
		}
		if offset < prev {
			return nil, fmt.Errorf("line %d: offset %d is before %d", lineNo, offset, prev)
		}
		prev = offset

		rest = strings.TrimSpace(rest)
		if strings.EqualFold(rest, "step") {
			rest = ""
		}
		steps = append(steps, scriptStep{line: lineNo, offset: offset, command: rest})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return steps, nil
}

// simulator replays a script against one save and writes every event as a
// JSON line.
type simulator struct {
	eng      *engine.Engine
	registry *command.Registry
	out      *json.Encoder
	events   int
}

func newSimulator(eng *engine.Engine, out io.Writer) *simulator {
	return &simulator{eng: eng, registry: command.DefaultRegistry(), out: json.NewEncoder(out)}
}

// run steps s to each line's time, then applies the line's command stamped
// with that time. A final step to untilOffset follows when it lies past the
// last line.
func (sim *simulator) run(s *state.EngineState, startMs int64, steps []scriptStep, untilOffset int64) (*state.EngineState, error) {
	for _, st := range steps {
		at := startMs + st.offset
		r := sim.eng.Step(s, at)
		s = r.State
		if err := sim.emit(r.Events); err != nil {
			return s, err
		}
		if st.command == "" {
			continue
		}

		cmd, err := sim.registry.Build(st.command, at)
		if err != nil {
			return s, fmt.Errorf("line %d: %w", st.line, err)
		}
		r = sim.eng.ApplyCommand(s, cmd)
		s = r.State
		if err := sim.emit(r.Events); err != nil {
			return s, err
		}
	}

	r := sim.eng.Step(s, startMs+untilOffset)
	if err := sim.emit(r.Events); err != nil {
		return r.State, err
	}
	return r.State, nil
}

func (sim *simulator) emit(events []event.GameEvent) error {
	for _, ev := range events {
		if err := sim.out.Encode(ev); err != nil {
			return fmt.Errorf("writing event %d: %w", ev.ID, err)
		}
		sim.events++
	}
	return nil
}
