package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/seoaudit/seoaudit/internal/config"
)

// fakeStep records whether it ran and can return a configured error.
type fakeStep struct {
	name string
	err  error
	ran  bool
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Do(_ context.Context, _ *State) error {
	s.ran = true
	return s.err
}

func testState(t *testing.T) *State {
	t.Helper()

	state, err := NewState("example.com", config.NewConfig(), http.DefaultClient, nil)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	return state
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&orderedStep{name: name, order: &order})
		}

		if err := p.Execute(context.Background(), testState(t)); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(order) != len(want) {
			t.Fatalf("ran %d steps, want %d", len(order), len(want))
		}
		for i, name := range want {
			if order[i] != name {
				t.Errorf("order[%d] = %q, want %q", i, order[i], name)
			}
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		failing := &fakeStep{name: "failing", err: errors.New("step broke")}
		after := &fakeStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		if err := p.Execute(context.Background(), testState(t)); err == nil {
			t.Fatal("expected error from failing step")
		}
		if after.ran {
			t.Error("step after failure should not run")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &fakeStep{name: "failing", err: errors.New("step broke")}
		after := &fakeStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		if err := p.Execute(context.Background(), testState(t)); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !after.ran {
			t.Error("step after failure should run with continueOnError")
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &fakeStep{name: "never"}
		p := New()
		p.AddStep(step)

		if err := p.Execute(ctx, testState(t)); !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
		if step.ran {
			t.Error("step should not run after cancellation")
		}
	})

	t.Run("step names and count", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(NewSetupStep(), NewCrawlStep(), NewOrphanStep(), NewAggregateStep())

		if p.StepCount() != 4 {
			t.Errorf("StepCount() = %d, want 4", p.StepCount())
		}

		want := []string{"setup", "crawl", "orphan-pass", "aggregate"}
		got := p.StepNames()
		for i, name := range want {
			if got[i] != name {
				t.Errorf("StepNames()[%d] = %q, want %q", i, got[i], name)
			}
		}
	})
}

// orderedStep appends its name to a shared slice when run.
type orderedStep struct {
	name  string
	order *[]string
}

func (s *orderedStep) Name() string { return s.name }

func (s *orderedStep) Do(_ context.Context, _ *State) error {
	*s.order = append(*s.order, s.name)
	return nil
}

func TestStateEffectiveSettings(t *testing.T) {
	t.Parallel()

	t.Run("globals apply without site overrides", func(t *testing.T) {
		t.Parallel()

		state := testState(t)

		if state.MaxPages() != config.DefaultMaxPages {
			t.Errorf("MaxPages() = %d, want %d", state.MaxPages(), config.DefaultMaxPages)
		}
		if state.MaxDepth() != config.DefaultMaxDepth {
			t.Errorf("MaxDepth() = %d, want %d", state.MaxDepth(), config.DefaultMaxDepth)
		}
		if !state.RespectRobots() {
			t.Error("RespectRobots() should default to true")
		}
	})

	t.Run("site overrides win", func(t *testing.T) {
		t.Parallel()

		noRobots := false
		cfg := config.NewConfig()
		cfg.SiteConfigs = &config.File{
			Sites: map[string]config.SiteConfig{
				"example.com": {
					MaxPages:      7,
					MaxDepth:      1,
					RespectRobots: &noRobots,
				},
			},
		}

		state, err := NewState("example.com", cfg, http.DefaultClient, nil)
		if err != nil {
			t.Fatalf("NewState() error = %v", err)
		}

		if state.MaxPages() != 7 {
			t.Errorf("MaxPages() = %d, want 7", state.MaxPages())
		}
		if state.MaxDepth() != 1 {
			t.Errorf("MaxDepth() = %d, want 1", state.MaxDepth())
		}
		if state.RespectRobots() {
			t.Error("RespectRobots() should be overridden to false")
		}
	})

	t.Run("bare domain gets https seed", func(t *testing.T) {
		t.Parallel()

		state := testState(t)
		if state.BaseURL.Scheme != "https" {
			t.Errorf("scheme = %q, want https", state.BaseURL.Scheme)
		}
		if state.BaseURL.Hostname() != "example.com" {
			t.Errorf("host = %q, want example.com", state.BaseURL.Hostname())
		}
	})
}
