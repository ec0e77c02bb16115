package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type testComponent struct {
	name      string
	startErr  error
	stopErr   error
	events    *[]string
	startCall int
	stopCall  int
}

func (c *testComponent) Start(ctx context.Context) error {
	_ = ctx
	c.startCall++
	if c.events != nil {
		*c.events = append(*c.events, "start:"+c.name)
	}
	return c.startErr
}

func (c *testComponent) Stop(ctx context.Context) error {
	_ = ctx
	c.stopCall++
	if c.events != nil {
		*c.events = append(*c.events, "stop:"+c.name)
	}
	return c.stopErr
}

func newRuntime(components ...*testComponent) *Runtime {
	r := NewRuntime()
	for _, c := range components {
		r.Register(c.name, c)
	}
	return r
}

func TestRuntimeStartStopOrder(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 6)
	runtime := newRuntime(
		&testComponent{name: "one", events: &events},
		&testComponent{name: "two", events: &events},
		&testComponent{name: "three", events: &events},
	)
	if err := runtime.Start(context.Background()); err != nil {
		t.Fatalf("start runtime: %v", err)
	}
	if err := runtime.Stop(context.Background()); err != nil {
		t.Fatalf("stop runtime: %v", err)
	}

	expected := []string{
		"start:one",
		"start:two",
		"start:three",
		"stop:three",
		"stop:two",
		"stop:one",
	}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("unexpected order: got %v want %v", events, expected)
	}
}

func TestRuntimeStartFailureStopsStartedComponents(t *testing.T) {
	t.Parallel()

	events := make([]string, 0, 4)
	startErr := errors.New("boom")
	c1 := &testComponent{name: "one", events: &events}
	c2 := &testComponent{name: "two", events: &events, startErr: startErr}
	c3 := &testComponent{name: "three", events: &events}

	err := newRuntime(c1, c2, c3).Start(context.Background())
	if err == nil {
		t.Fatalf("expected start error")
	}
	if !errors.Is(err, startErr) || !strings.Contains(err.Error(), "start two") {
		t.Fatalf("unexpected start error: %v", err)
	}

	if c1.stopCall != 1 {
		t.Fatalf("expected started component to be stopped once, got %d", c1.stopCall)
	}
	if c2.stopCall != 0 || c3.stopCall != 0 {
		t.Fatalf("unexpected stop calls: c2=%d c3=%d", c2.stopCall, c3.stopCall)
	}
	if c3.startCall != 0 {
		t.Fatalf("component after the failure should not start")
	}
}

func TestRuntimeStopJoinsErrors(t *testing.T) {
	t.Parallel()

	errOne := errors.New("one failed")
	errTwo := errors.New("two failed")
	c1 := &testComponent{name: "one", stopErr: errOne}
	c2 := &testComponent{name: "two", stopErr: errTwo}

	err := newRuntime(c1, c2).Stop(context.Background())
	if !errors.Is(err, errOne) || !errors.Is(err, errTwo) {
		t.Fatalf("expected both stop errors, got %v", err)
	}
	if c1.stopCall != 1 || c2.stopCall != 1 {
		t.Fatalf("every component should be stopped once")
	}
}

func TestHooksAndCloser(t *testing.T) {
	t.Parallel()

	closed := false
	r := NewRuntime()
	r.Register("empty", Hooks{})
	r.Register("closer", Closer(func() error {
		closed = true
		return nil
	}))
	r.Register("nil", nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if closed {
		t.Fatalf("closer ran on start")
	}
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !closed {
		t.Fatalf("closer did not run on stop")
	}
}
