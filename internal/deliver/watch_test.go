package deliver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/goleak"
)

func TestWatcher_Relevant(t *testing.T) {
	runDir := t.TempDir()
	moduleDir(t, runDir, "C0", nil)

	w, err := NewWatcher(runDir, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	tests := []struct {
		path string
		op   fsnotify.Op
		want bool
	}{
		{filepath.Join(runDir, "C0", "network.json"), fsnotify.Write, true},
		{filepath.Join(runDir, "C0", "label.json"), fsnotify.Create, true},
		{filepath.Join(runDir, "C0", "module_subnet.json"), fsnotify.Create, true},
		{filepath.Join(runDir, "C0", "module.graphml"), fsnotify.Write, false},
		{filepath.Join(runDir, "C0", "module.zip"), fsnotify.Write, false},
		{filepath.Join(runDir, "C0", ".network.json.tmp-123"), fsnotify.Create, false},
		{filepath.Join(runDir, "C0", "network.json"), fsnotify.Chmod, false},
		{filepath.Join(runDir, SummaryTSVFile), fsnotify.Write, false},
		{filepath.Join(runDir, IndexFile), fsnotify.Write, false},
		{filepath.Join(runDir, "C3"), fsnotify.Remove, true},
		{filepath.Join(runDir, "notes", "network.json"), fsnotify.Write, false},
	}
	for _, tt := range tests {
		got := w.relevant(fsnotify.Event{Name: tt.path, Op: tt.op})
		if got != tt.want {
			t.Errorf("relevant(%s %s) = %v, want %v", tt.op, tt.path, got, tt.want)
		}
	}
}

func TestWatcher_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	runDir := t.TempDir()
	dir := moduleDir(t, runDir, "C0", nil)

	w, err := NewWatcher(runDir, DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan struct{}, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() { changes <- struct{}{} })
	}()

	// A burst of writes collapses into a single callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "network.json"), []byte(`{}`), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changes:
	case <-ctx.Done():
		t.Fatal("no change reported")
	}
	select {
	case <-changes:
		t.Error("burst reported more than once")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}
