package trigger_test

import (
	"testing"

	"go.trai.ch/gale/internal/core/domain"
	"go.trai.ch/gale/internal/core/ports/mocks"
	"go.trai.ch/gale/internal/engine/trigger"
	"go.uber.org/mock/gomock"
)

func TestNormalizeSpec(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0 3 * * 1", "0 0 3 * * 1"},
		{"*/5 * * * *", "0 */5 * * * *"},
		{"@hourly", "@hourly"},
		{"0 0 3 * * 1", "0 0 3 * * 1"},
		{"  0 3 * * 1  ", "0 0 3 * * 1"},
	}
	for _, c := range cases {
		if got := trigger.NormalizeSpec(c.in); got != c.want {
			t.Errorf("NormalizeSpec(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func newWatcher(t *testing.T) *trigger.Watcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	return trigger.NewWatcher(log)
}

func TestWatcher_Start_InvalidSpec(t *testing.T) {
	w := newWatcher(t)

	err := w.Start([]string{"not a schedule"}, func(domain.Event) {})
	if err == nil {
		t.Fatal("expected an error for a malformed schedule")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := newWatcher(t)

	if err := w.Start([]string{"0 3 * * 1"}, func(domain.Event) {}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	w.Stop()
}
