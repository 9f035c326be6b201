package voice

import (
	"errors"
	"log"
	"sync"
)

// Locale is the recognition language tag handed to the recognizer.
const Locale = "ta-IN"

// ErrUnsupported is reported when no speech-recognition capability exists.
var ErrUnsupported = errors.New("speech recognition not supported")

// Recognizer is the capability the Service drives. Implementations deliver
// one transcript (or one error) per listening session.
type Recognizer interface {
	Start() error
	Stop()
}

type state int

const (
	stateIdle state = iota
	stateListening
)

// Service wraps a Recognizer with a two-state machine: Idle and Listening.
// A result or an error always returns it to Idle; starting while already
// Listening is a no-op that reports success.
type Service struct {
	mu         sync.Mutex
	recognizer Recognizer
	state      state
	onCommand  func(command string, matched bool)
	onError    func(error)
}

// NewService builds a Service over recognizer; a nil recognizer means the
// environment has no speech capability and every Start fails with
// ErrUnsupported.
func NewService(recognizer Recognizer) *Service {
	return &Service{recognizer: recognizer}
}

func (s *Service) Supported() bool {
	return s.recognizer != nil
}

// Start transitions Idle → Listening and begins a single-utterance capture.
func (s *Service) Start(onCommand func(command string, matched bool), onError func(error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recognizer == nil {
		return ErrUnsupported
	}
	if s.state == stateListening {
		return nil
	}

	s.onCommand = onCommand
	s.onError = onError
	if err := s.recognizer.Start(); err != nil {
		return err
	}
	s.state = stateListening
	return nil
}

// Stop explicitly returns the Service to Idle.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateListening {
		return
	}
	s.recognizer.Stop()
	s.state = stateIdle
}

func (s *Service) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateListening
}

// HandleResult is invoked by the recognizer when a transcript arrives. The
// transcript is dispatched through the phrase tables and the Service returns
// to Idle before the callback runs.
func (s *Service) HandleResult(transcript string) {
	s.mu.Lock()
	cb := s.onCommand
	s.state = stateIdle
	s.mu.Unlock()

	command, matched := Dispatch(transcript)
	log.Printf("voice: recognized %q -> %q", transcript, command)
	if cb != nil {
		cb(command, matched)
	}
}

// HandleError is invoked by the recognizer on a mid-listen failure.
func (s *Service) HandleError(err error) {
	s.mu.Lock()
	cb := s.onError
	s.state = stateIdle
	s.mu.Unlock()

	log.Printf("voice: recognition error: %v", err)
	if cb != nil {
		cb(err)
	}
}
