// Package checkout carries a buyer's in-progress order through the checkout
// wizard: cart review, recipient, memory, payment and confirmation.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrStageLocked       = errors.New("field cannot be changed in the current checkout stage")
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrInvalidMemory     = errors.New("invalid memory attachment")
	ErrInvalidCard       = errors.New("invalid card selection")
	ErrSubmitting        = errors.New("checkout is already being submitted")
)

// Store is one buyer's checkout session. Each stage owns a slice of the
// session and writes to that slice are rejected outside of it.
type Store struct {
	mu         sync.Mutex
	session    Session
	submitting bool
}

func NewStore() *Store {
	return &Store{}
}

func (st *Store) Stage() Stage {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session.Stage
}

func (st *Store) Snapshot() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session
}

// requireStage must be called with st.mu held
func (st *Store) requireStage(want Stage, what string) error {
	if st.session.Stage != want {
		return fmt.Errorf("%w: %s belongs to the %s stage, session is at %s",
			ErrStageLocked, what, want, st.session.Stage)
	}
	return nil
}

// SelectCard chooses the greeting card add-on. An empty cardType removes it.
func (st *Store) SelectCard(cardType string, price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidCard)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.requireStage(StageCartReview, "card"); err != nil {
		return err
	}

	cardType = strings.TrimSpace(cardType)
	if cardType == "" {
		st.session.Card = Card{}
		return nil
	}
	st.session.Card = Card{Type: cardType, Price: price}
	return nil
}

func (st *Store) SetRecipient(r Recipient) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.requireStage(StageRecipient, "recipient"); err != nil {
		return err
	}
	st.session.Recipient = r
	return nil
}

// AttachVideo replaces any attached memory with a video
func (st *Store) AttachVideo(url, title string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: video requires a url", ErrInvalidMemory)
	}
	return st.setMemory(Memory{Type: MemoryVideo, VideoURL: url, VideoTitle: title})
}

// AttachPhoto replaces any attached memory with a photo and optional caption
func (st *Store) AttachPhoto(url, caption string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: photo requires a url", ErrInvalidMemory)
	}
	return st.setMemory(Memory{Type: MemoryPhoto, PhotoURL: url, Message: caption})
}

// AttachText replaces any attached memory with a text message
func (st *Store) AttachText(message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("%w: text requires a message", ErrInvalidMemory)
	}
	return st.setMemory(Memory{Type: MemoryText, Message: message})
}

func (st *Store) ClearMemory() error {
	return st.setMemory(Memory{})
}

func (st *Store) setMemory(m Memory) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.requireStage(StageMemory, "memory"); err != nil {
		return err
	}
	st.session.Memory = m
	return nil
}

func (st *Store) SetPayment(p Payment) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.requireStage(StagePayment, "payment"); err != nil {
		return err
	}
	st.session.Payment = p
	return nil
}

// Advance validates the current stage and moves to the next one. It
// returns a *ValidationError when required fields are missing.
func (st *Store) Advance() (Stage, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, ok := st.session.Stage.next()
	if !ok {
		return st.session.Stage, fmt.Errorf("%w: %s is the last stage", ErrInvalidTransition, st.session.Stage)
	}
	if fields := validateStage(st.session); len(fields) > 0 {
		return st.session.Stage, &ValidationError{Stage: st.session.Stage, Fields: fields}
	}

	st.session.Stage = next
	return next, nil
}

// Back returns to the previous stage. Data entered so far is kept.
func (st *Store) Back() (Stage, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.submitting {
		return st.session.Stage, ErrSubmitting
	}
	prev, ok := st.session.Stage.prev()
	if !ok {
		return st.session.Stage, fmt.Errorf("%w: %s is the first stage", ErrInvalidTransition, st.session.Stage)
	}
	st.session.Stage = prev
	return prev, nil
}

// Reset returns every field to its initial value
func (st *Store) Reset() {
	st.mu.Lock()
	st.session = Session{}
	st.submitting = false
	st.mu.Unlock()
}

// Begin claims a confirmed session for order placement. Only one claim is
// held at a time; it ends with Complete or Abort.
func (st *Store) Begin() (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.submitting {
		return Session{}, ErrSubmitting
	}
	if st.session.Stage != StageConfirmation {
		return Session{}, fmt.Errorf("%w: cannot submit from %s", ErrInvalidTransition, st.session.Stage)
	}
	st.submitting = true
	return st.session, nil
}

// Abort releases a claim taken by Begin and leaves the session at
// confirmation.
func (st *Store) Abort() {
	st.mu.Lock()
	st.submitting = false
	st.mu.Unlock()
}

// Complete hands out the confirmed session and resets the store, so nothing
// of this checkout carries into the next one.
func (st *Store) Complete() (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session.Stage != StageConfirmation {
		return Session{}, fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, st.session.Stage)
	}
	final := st.session
	st.session = Session{}
	st.submitting = false
	return final, nil
}
