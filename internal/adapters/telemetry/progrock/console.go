package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// consoleWriter renders progrock status updates as a line-oriented stream.
// It stands in for a full-screen frontend: one line when a vertex starts,
// its log output as it arrives, and one line when it completes.
type consoleWriter struct {
	mu        sync.Mutex
	out       io.Writer
	started   map[string]bool
	completed map[string]bool
}

func newConsoleWriter(out io.Writer) *consoleWriter {
	return &consoleWriter{
		out:       out,
		started:   make(map[string]bool),
		completed: make(map[string]bool),
	}
}

// WriteStatus implements progrock.Writer.
func (w *consoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if !w.started[v.Id] {
			w.started[v.Id] = true
			fmt.Fprintf(w.out, "▶ %s\n", v.Name)
		}
		if v.Completed == nil || w.completed[v.Id] {
			continue
		}
		w.completed[v.Id] = true
		switch {
		case v.Cached:
			fmt.Fprintf(w.out, "∅ %s (cached)\n", v.Name)
		case v.Error != nil:
			fmt.Fprintf(w.out, "✗ %s: %s\n", v.Name, *v.Error)
		default:
			fmt.Fprintf(w.out, "✓ %s\n", v.Name)
		}
	}

	for _, l := range update.Logs {
		if _, err := w.out.Write(l.Data); err != nil {
			return err
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (w *consoleWriter) Close() error {
	return nil
}
