package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWarmUp_Concurrent(t *testing.T) {
	detector := writeScript(t, "detector", "exit 0")
	l := NewExecLocator(detector, nopLogger{})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.WarmUp(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent warmup %d: %v", i, err)
		}
	}
	// A warmed locator stays warm.
	if err := l.WarmUp(context.Background()); err != nil {
		t.Fatalf("repeat warmup: %v", err)
	}
}

func TestWarmUp_NoDetectorConfigured(t *testing.T) {
	l := NewExecLocator("", nopLogger{})
	if err := l.WarmUp(context.Background()); err != nil {
		t.Fatalf("warmup without detector: %v", err)
	}
}

func TestLocate_PicksHighestConfidence(t *testing.T) {
	detector := writeScript(t, "detector",
		`echo "100 200 0.40"
echo "640 360 0.95"
echo "30 40 0.70"`)
	l := NewExecLocator(detector, nopLogger{})

	p, err := l.Locate(context.Background(), "frame.jpg")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if p == nil {
		t.Fatal("expected a detection")
	}
	if p.X != 640 || p.Y != 360 || p.Confidence != 0.95 {
		t.Fatalf("picked %+v, want the 0.95 candidate", p)
	}
}

func TestLocate_NoOutputIsNoDetection(t *testing.T) {
	detector := writeScript(t, "detector", "exit 0")
	l := NewExecLocator(detector, nopLogger{})

	p, err := l.Locate(context.Background(), "frame.jpg")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if p != nil {
		t.Fatalf("empty detector output should be a nil point, got %+v", p)
	}
}

func TestLocateAll_PreservesOrderWithGaps(t *testing.T) {
	l := NewExecLocator("", nopLogger{})

	points, err := l.LocateAll(context.Background(), []string{"a.jpg", "b.jpg", "c.jpg"})
	if err != nil {
		t.Fatalf("LocateAll: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	for i, p := range points {
		if p != nil {
			t.Fatalf("frame %d should have no detection without a detector, got %+v", i, p)
		}
	}
}
