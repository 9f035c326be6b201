package voice

import (
	"errors"
	"testing"
)

type fakeRecognizer struct {
	started int
	stopped int
	failOn  error
}

func (f *fakeRecognizer) Start() error {
	if f.failOn != nil {
		return f.failOn
	}
	f.started++
	return nil
}

func (f *fakeRecognizer) Stop() { f.stopped++ }

func TestServiceUnsupported(t *testing.T) {
	s := NewService(nil)
	if s.Supported() {
		t.Errorf("nil recognizer must report unsupported")
	}
	err := s.Start(nil, nil)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestServiceStartWhileListeningIsNoop(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewService(rec)

	if err := s.Start(nil, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(nil, nil); err != nil {
		t.Errorf("second Start must report success, got %v", err)
	}
	if rec.started != 1 {
		t.Errorf("recognizer should only be started once, got %d", rec.started)
	}
}

func TestServiceResultReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewService(rec)

	var got string
	s.Start(func(command string, matched bool) { got = command }, nil)
	s.HandleResult("பணம் செலுத்து")

	if got != "proceed to payment" {
		t.Errorf("expected dispatched command, got %q", got)
	}
	if s.Listening() {
		t.Errorf("a result must return the service to idle")
	}
}

func TestServiceErrorReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewService(rec)

	var got error
	s.Start(nil, func(err error) { got = err })
	s.HandleError(errors.New("no-speech"))

	if got == nil {
		t.Errorf("error callback should run")
	}
	if s.Listening() {
		t.Errorf("an error must return the service to idle")
	}
}

func TestServiceStop(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewService(rec)

	s.Stop() // idle stop is a no-op
	if rec.stopped != 0 {
		t.Errorf("stopping while idle must not reach the recognizer")
	}

	s.Start(nil, nil)
	s.Stop()
	if rec.stopped != 1 || s.Listening() {
		t.Errorf("stop should halt the recognizer and return to idle")
	}
}
