package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubEngine returns a canned result or error.
type stubEngine struct {
	name   string
	result *FetchResult
	err    error
	delay  time.Duration
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	r.EngineName = s.name
	return &r, nil
}

func newTestDispatcher(engines ...Engine) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	for i := range delays {
		delays[i] = time.Duration(i) * 10 * time.Millisecond
	}
	return NewDispatcher(engines, delays, NewDomainMemory(time.Minute))
}

func TestDispatch_FirstEngineWins(t *testing.T) {
	httpEng := &stubEngine{name: "http", result: &FetchResult{HTML: "<html>fast</html>", FinalURL: "http://a.com/x"}}
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "<html>slow</html>"}, delay: 200 * time.Millisecond}

	d := newTestDispatcher(httpEng, rodEng)
	got, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.EngineName != "http" {
		t.Errorf("winner = %q, want http", got.EngineName)
	}
}

func TestDispatch_EscalatesOnFailure(t *testing.T) {
	httpEng := &stubEngine{name: "http", err: errors.New("blocked")}
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "<html>rendered</html>", FinalURL: "http://a.com/x"}}

	d := newTestDispatcher(httpEng, rodEng)
	got, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.EngineName != "rod" {
		t.Errorf("winner = %q, want rod", got.EngineName)
	}
}

func TestDispatch_AllFail(t *testing.T) {
	httpEng := &stubEngine{name: "http", err: errors.New("http down")}
	rodEng := &stubEngine{name: "rod", err: errors.New("browser down")}

	d := newTestDispatcher(httpEng, rodEng)
	if _, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x"}); err == nil {
		t.Fatal("expected error when all engines fail")
	}
}

func TestDispatch_RenderJSRestrictsToBrowser(t *testing.T) {
	httpEng := &stubEngine{name: "http", result: &FetchResult{HTML: "static"}}
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "rendered"}}

	d := newTestDispatcher(httpEng, rodEng)
	render := true
	got, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x", RenderJS: &render})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.EngineName != "rod" {
		t.Errorf("winner = %q, want rod when render_js is true", got.EngineName)
	}
}

func TestDispatch_RenderJSFalseRestrictsToHTTP(t *testing.T) {
	httpEng := &stubEngine{name: "http", result: &FetchResult{HTML: "static"}}
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "rendered"}}

	d := newTestDispatcher(httpEng, rodEng)
	render := false
	got, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x", RenderJS: &render})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.EngineName != "http" {
		t.Errorf("winner = %q, want http when render_js is false", got.EngineName)
	}
}

func TestDispatch_NoEligibleEngine(t *testing.T) {
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "rendered"}}
	d := newTestDispatcher(rodEng)

	render := false
	if _, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x", RenderJS: &render}); err == nil {
		t.Fatal("expected error when render_js=false leaves no engine")
	}
}

func TestDispatch_DomainMemoryShortCircuits(t *testing.T) {
	httpEng := &stubEngine{name: "http", err: errors.New("blocked")}
	rodEng := &stubEngine{name: "rod", result: &FetchResult{HTML: "rendered"}}

	memory := NewDomainMemory(time.Minute)
	d := NewDispatcher([]Engine{httpEng, rodEng}, []time.Duration{0, 10 * time.Millisecond}, memory)

	// First dispatch: http fails, rod wins and is remembered.
	first, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/x"})
	if err != nil {
		t.Fatalf("first Dispatch: %v", err)
	}
	if first.EngineName != "rod" {
		t.Fatalf("first winner = %q, want rod", first.EngineName)
	}
	if memory.Get("a.com") != "rod" {
		t.Fatalf("domain memory = %q, want rod", memory.Get("a.com"))
	}

	// Second dispatch goes straight to the remembered engine.
	second, err := d.Dispatch(context.Background(), &FetchRequest{URL: "http://a.com/y"})
	if err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}
	if second.EngineName != "rod" {
		t.Errorf("second winner = %q, want rod", second.EngineName)
	}
}

func TestDomainMemory_Expiry(t *testing.T) {
	dm := NewDomainMemory(10 * time.Millisecond)
	defer dm.Stop()

	dm.Set("a.com", "http")
	if got := dm.Get("a.com"); got != "http" {
		t.Fatalf("Get = %q, want http", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := dm.Get("a.com"); got != "" {
		t.Errorf("expired entry still returned: %q", got)
	}
}

func TestDomainMemory_Delete(t *testing.T) {
	dm := NewDomainMemory(time.Minute)
	defer dm.Stop()

	dm.Set("a.com", "rod")
	dm.Delete("a.com")
	if got := dm.Get("a.com"); got != "" {
		t.Errorf("deleted entry still returned: %q", got)
	}
}
