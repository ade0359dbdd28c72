package site

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(clock *fakeClock) *SessionStore {
	st := NewSessionStore("sid", 30*time.Minute, false, quietLogger())
	st.now = clock.now
	return st
}

func resolveWith(st *SessionStore, cookie *http.Cookie) (*Session, *http.Cookie) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	sess := st.Resolve(rec, req)
	var set *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			set = c
		}
	}
	return sess, set
}

func TestSessionStoreResolve(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	st := newTestStore(clock)

	first, cookie := resolveWith(st, nil)
	if cookie == nil || cookie.Value != first.ID || !cookie.HttpOnly || cookie.MaxAge != 1800 {
		t.Fatalf("cookie = %+v", cookie)
	}

	clock.t = clock.t.Add(10 * time.Minute)
	again, set := resolveWith(st, cookie)
	if again != first || set != nil {
		t.Fatalf("known cookie should resume the session without a new cookie")
	}

	clock.t = clock.t.Add(31 * time.Minute)
	fresh, set := resolveWith(st, cookie)
	if fresh == first || set == nil {
		t.Fatalf("expired session should be replaced")
	}
}

func TestSessionFormsAreIndependent(t *testing.T) {
	st := newTestStore(&fakeClock{t: time.Now()})
	sess, _ := resolveWith(st, nil)
	gw := stepform.GatewayFunc(func(context.Context, stepform.Submission) (stepform.Receipt, error) {
		return stepform.Receipt{Reference: "r"}, nil
	})
	factory := func(v application.Variant) (*stepform.Controller, error) {
		return stepform.NewController(v, gw, stepform.WithLogger(quietLogger()))
	}
	ind, err := sess.Form(application.VariantIndividual, factory)
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	inst, _ := sess.Form(application.VariantInstitute, factory)
	again, _ := sess.Form(application.VariantIndividual, factory)
	if ind != again {
		t.Fatalf("Form must reuse the variant controller")
	}
	if ind == inst || inst.Variant() != application.VariantInstitute {
		t.Fatalf("variants must not share a controller")
	}
}

func TestSessionSweepKeepsInFlightSubmissions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	st := newTestStore(clock)

	release := make(chan struct{})
	entered := make(chan struct{})
	gw := stepform.GatewayFunc(func(ctx context.Context, _ stepform.Submission) (stepform.Receipt, error) {
		close(entered)
		<-release
		return stepform.Receipt{Reference: "r"}, nil
	})
	factory := func(v application.Variant) (*stepform.Controller, error) {
		return stepform.NewController(v, gw, stepform.WithLogger(quietLogger()))
	}

	busy, _ := resolveWith(st, nil)
	idle, _ := resolveWith(st, nil)
	ctrl, err := busy.Form(application.VariantEnquiry, factory)
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	for name, v := range map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hi"} {
		if err := ctrl.Set(name, application.Text(v)); err != nil {
			t.Fatalf("Set %s: %v", name, err)
		}
	}
	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background())
		done <- err
	}()
	<-entered

	clock.t = clock.t.Add(time.Hour)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d sessions, want 1", n)
	}
	if st.Len() != 1 {
		t.Fatalf("busy session should survive the sweep")
	}
	if _, ok := st.sessions[idle.ID]; ok {
		t.Fatalf("idle session should be removed")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := st.Sweep(); n != 1 || st.Len() != 0 {
		t.Fatalf("settled session should expire, removed %d, left %d", n, st.Len())
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	st := NewSessionStore("sid", time.Minute, false, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Janitor(ctx, 10*time.Millisecond, NewMemoryLimiter())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
}
