package progrock_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	vito "github.com/vito/progrock"
	"go.trai.ch/gale/internal/adapters/telemetry/progrock"
	"go.trai.ch/gale/internal/core/ports"
)

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.NewRecorder(vito.NewTape())

	ctx := context.Background()
	vctx, vertex := recorder.Record(ctx, "install deps")

	if _, ok := ports.VertexFromContext(vctx); !ok {
		t.Error("expected the vertex to be attached to the returned context")
	}

	if _, err := vertex.Stdout().Write([]byte("downloading\n")); err != nil {
		t.Errorf("failed to write to stdout: %v", err)
	}

	vertex.Complete(nil)

	if err := recorder.Close(); err != nil {
		t.Errorf("failed to close recorder: %v", err)
	}
}

func TestRecorder_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer

	recorder := progrock.NewRecorderTo(&buf)
	_, vertex := recorder.Record(context.Background(), "run tests")
	vertex.Complete(nil)

	if err := recorder.Close(); err != nil {
		t.Fatalf("failed to close recorder: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "run tests") {
		t.Errorf("expected console output to mention the vertex, got: %q", out)
	}
}
