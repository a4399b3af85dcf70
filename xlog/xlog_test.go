package xlog

import (
	"bytes"
	"testing"
)

func TestRootReturnsSameInstance(t *testing.T) {
	a := Root()
	b := Root()
	if a != b {
		t.Fatalf("Root() returned distinct instances")
	}
}

func TestNewMergesContext(t *testing.T) {
	base := Root().New("component", "test")
	child := base.New("op", "fault")

	l, ok := child.(*logger)
	if !ok {
		t.Fatalf("expected *logger, got %T", child)
	}
	if len(l.ctx) != 4 {
		t.Fatalf("expected merged ctx of length 4, got %d: %v", len(l.ctx), l.ctx)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &logger{mu: Root().(*logger).mu, out: &buf, minLvl: LvlWarn}
	l.Debug("should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("Debug line written below minLvl Warn: %q", buf.String())
	}
	l.Warn("should pass")
	if buf.Len() == 0 {
		t.Fatalf("Warn line was filtered at minLvl Warn")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
