package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/nsf/termbox-go"

	"fft-contest/bench"
)

const (
	colDef    = termbox.ColorDefault
	colWhite  = termbox.ColorWhite
	colRed    = termbox.ColorRed
	colGreen  = termbox.ColorGreen
	colYellow = termbox.ColorYellow
	colCyan   = termbox.ColorCyan
)

// driftWarnRatio marks results whose drift error exceeds the round-trip error
// by this factor.
const driftWarnRatio = 100

// TUIState is the progress table shown by runTUI. It implements
// bench.Listener and is fed from the sweep goroutine.
type TUIState struct {
	mu        sync.Mutex
	engines   []string
	precision string
	total     int
	records   []bench.Record
	started   time.Time
	done      bool
	err       error

	// owned by the TUI goroutine
	scroll int
	follow bool
	exit   bool
}

func newTUIState(engines []string, precision string, total int) *TUIState {
	return &TUIState{
		engines:   engines,
		precision: precision,
		total:     total,
		started:   time.Now(),
		follow:    true,
	}
}

// OnRecord appends a finished size to the table.
func (s *TUIState) OnRecord(rec bench.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Finish records the outcome of the sweep.
func (s *TUIState) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.err = err
}

func runTUI(ctx context.Context, state *TUIState) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to initialize TUI: %w", err)
	}
	defer termbox.Close()

	termbox.SetInputMode(termbox.InputEsc)

	eventQueue := make(chan termbox.Event)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			eventQueue <- ev
		}
	}()
	defer termbox.Interrupt()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	draw(state)

	for !state.exit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventQueue:
			switch ev.Type {
			case termbox.EventKey:
				handleKey(ev, state)
			case termbox.EventResize:
				draw(state)
			case termbox.EventError:
				return fmt.Errorf("terminal event: %w", ev.Err)
			}
		case <-ticker.C:
			draw(state)
		}
	}

	return nil
}

func handleKey(ev termbox.Event, s *TUIState) {
	if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
		s.exit = true
		return
	}

	switch ev.Key {
	case termbox.KeyArrowUp:
		s.scroll--
		s.follow = false
	case termbox.KeyArrowDown:
		s.scroll++
	case termbox.KeyPgup:
		s.scroll -= 10
		s.follow = false
	case termbox.KeyPgdn:
		s.scroll += 10
	case termbox.KeyEnd:
		s.follow = true
	}

	if s.scroll < 0 {
		s.scroll = 0
	}
}

func draw(state *TUIState) {
	state.mu.Lock()
	records := state.records
	done, sweepErr := state.done, state.err
	elapsed := time.Since(state.started).Round(time.Second)
	state.mu.Unlock()

	_ = termbox.Clear(colDef, colDef)
	w, h := termbox.Size()

	printTB(0, 0, colCyan, colDef, "fft-contest - "+strings.Join(state.engines, " vs ")+" ("+state.precision+")")

	status := fmt.Sprintf("%d / %d sizes, %s elapsed", len(records), state.total, elapsed)
	statusCol := colWhite
	switch {
	case sweepErr != nil:
		status += " - FAILED: " + sweepErr.Error()
		statusCol = colRed
	case done:
		status += " - done"
		statusCol = colGreen
	}
	printTB(0, 1, statusCol, colDef, status)
	printTB(0, 2, colDef, colDef, "Up/Down/PgUp/PgDn to scroll, End to follow, 'q' or Esc to quit.")

	header := fmt.Sprintf("%7s %10s", "size", "iters")
	for _, name := range state.engines {
		header += fmt.Sprintf(" | %-29s", truncate(name, 29))
	}
	printTB(0, 4, colYellow, colDef, clip(header, w))

	sub := fmt.Sprintf("%7s %10s", "", "")
	for range state.engines {
		sub += fmt.Sprintf(" | %9s %9s %9s", "error", "drift", "us/op")
	}
	printTB(0, 5, colYellow, colDef, clip(sub, w))

	listStartY := 6
	listHeight := max(h-listStartY-1, 1)

	maxScroll := max(len(records)-listHeight, 0)
	if state.follow || state.scroll > maxScroll {
		state.scroll = maxScroll
	}

	for i := 0; i < listHeight && state.scroll+i < len(records); i++ {
		rec := records[state.scroll+i]
		x := 0
		line := fmt.Sprintf("%7d %10d", rec.Size, rec.Iterations)
		printTB(x, listStartY+i, colWhite, colDef, line)
		x += len(line)

		for _, r := range rec.Results {
			cell := fmt.Sprintf(" | %9.2e %9.2e %9.3g", r.RoundTripError, r.DriftError, r.MicrosPerOp)
			col := colWhite
			if math.IsNaN(r.DriftError) || r.DriftError > driftWarnRatio*max(r.RoundTripError, 1e-16) {
				col = colRed
			}
			printTB(x, listStartY+i, col, colDef, cell)
			x += len(cell)
		}
	}

	termbox.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func clip(s string, w int) string {
	if w > 0 && len(s) > w {
		return s[:w]
	}
	return s
}

func printTB(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}
