package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
	"github.com/cory-johannsen/idlerpg/internal/gameserver"
	"github.com/cory-johannsen/idlerpg/internal/storage"
)

// reply is one JSON line written back for each console input line.
type reply struct {
	SaveID string             `json:"saveId,omitempty"`
	Events []event.GameEvent  `json:"events,omitempty"`
	State  *state.EngineState `json:"state,omitempty"`
	Rates  *state.Rates       `json:"rates,omitempty"`
	Saves  []storage.Summary  `json:"saves,omitempty"`
	Loaded []string           `json:"loaded,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// console turns stdin lines into host operations:
//
//	new <player name>
//	load <saveID>
//	unload <saveID>
//	show <saveID>
//	list
//	<saveID> <player command>
type console struct {
	host  *gameserver.Host
	store storage.Store
	clock gameserver.Clock
	out   *json.Encoder
}

func newConsole(host *gameserver.Host, store storage.Store, clock gameserver.Clock, out io.Writer) *console {
	return &console{host: host, store: store, clock: clock, out: json.NewEncoder(out)}
}

// serve handles lines from r until EOF or ctx cancellation.
func (c *console) serve(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case line := <-lines:
			if err := c.out.Encode(c.handle(ctx, line)); err != nil {
				return fmt.Errorf("writing reply: %w", err)
			}
		}
	}
}

func (c *console) handle(ctx context.Context, line string) reply {
	line = strings.TrimSpace(line)
	head, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch head {
	case "":
		return reply{Error: "empty line"}
	case "list":
		sums, err := c.store.List(ctx)
		if err != nil {
			return reply{Error: err.Error()}
		}
		return reply{Saves: sums, Loaded: c.host.Loaded()}
	case "new":
		if rest == "" {
			return reply{Error: "usage: new <player name>"}
		}
		s, err := c.host.Create(ctx, rest)
		if err != nil {
			return reply{Error: err.Error()}
		}
		return reply{SaveID: s.SaveID, State: s}
	case "load":
		s, err := c.host.Load(ctx, rest)
		if err != nil {
			return reply{SaveID: rest, Error: err.Error()}
		}
		return reply{SaveID: rest, State: s}
	case "unload":
		if err := c.host.Unload(ctx, rest); err != nil {
			return reply{SaveID: rest, Error: err.Error()}
		}
		return reply{SaveID: rest}
	case "show":
		s, err := c.host.Snapshot(rest)
		if err != nil {
			return reply{SaveID: rest, Error: err.Error()}
		}
		rates := s.Rates(c.clock.NowMs())
		return reply{SaveID: rest, State: s, Rates: &rates}
	}

	evs, err := c.host.DispatchLine(head, rest)
	r := reply{SaveID: head, Events: evs}
	if err != nil {
		r.Error = err.Error()
		if errors.Is(err, gameserver.ErrCatchingUp) {
			r.Error += "; retry shortly"
		}
	}
	return r
}
