package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"giveflow/pkg/payment"
)

type Status int

const (
	StatusInitializing Status = iota
	StatusReady
	StatusSubmitting
	StatusClosed
)

// Backend is the session's view of the charge backend. *SubmissionClient
// satisfies it.
type Backend interface {
	Submit(ctx context.Context, sub Submission) (*ChargeRecord, error)
	CreatePaymentIntent(ctx context.Context, intent Intent, totalCents int64, previous string) (secret, reference string, err error)
}

type Config struct {
	Registry *Registry
	Backend  Backend
	// ConfirmationDelay keeps the confirmation visible before the session
	// closes after a successful charge.
	ConfirmationDelay time.Duration
	Notifier          Notifier
}

// attemptRecord remembers the last attempt so an identical re-send (same
// token, same total, e.g. after a dropped response) reuses its key instead
// of minting a fresh one.
type attemptRecord struct {
	key        string
	token      string
	channelID  string
	totalCents int64
}

// Session coordinates one open payment sheet: it owns the current total,
// the channel controllers, and the single-attempt lock. Created on sheet
// open, discarded on close or terminal success.
type Session struct {
	id           string
	registry     *Registry
	backend      Backend
	confirmDelay time.Duration
	notifier     Notifier

	// mu is the session lock: a total update and a submission are mutually
	// exclusive, the later caller queues on it.
	mu           sync.Mutex
	intent       Intent
	total        Total
	controllers  []*Controller
	byID         map[string]*Controller
	clientSecret string
	intentRef    string
	last         *attemptRecord

	stMu   sync.Mutex
	status Status
	closed bool
}

func NewSession(cfg Config) *Session {
	return &Session{
		id:           uuid.New().String(),
		registry:     cfg.Registry,
		backend:      cfg.Backend,
		confirmDelay: cfg.ConfirmationDelay,
		notifier:     cfg.Notifier,
		byID:         make(map[string]*Controller),
		status:       StatusInitializing,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() Status {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.status
}

func (s *Session) isClosed() bool {
	s.stMu.Lock()
	defer s.stMu.Unlock()
	return s.closed
}

func (s *Session) setStatus(st Status) {
	s.stMu.Lock()
	if !s.closed {
		s.status = st
	}
	s.stMu.Unlock()
}

func (s *Session) notify(e Event) {
	if s.notifier == nil {
		return
	}
	e.SessionID = s.id
	s.notifier.Notify(e)
}

// Total returns the session's current buyer-facing total.
func (s *Session) Total() Total {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ChannelState reports one channel's lifecycle state for the host UI.
func (s *Session) ChannelState(channelID string) (ChannelState, error) {
	s.mu.Lock()
	c, ok := s.byID[channelID]
	s.mu.Unlock()
	if !ok {
		return Unprobed, ErrUnknownChannel
	}
	return c.State(), nil
}

// WalletDivider reports whether the host UI should show the wallet/card
// divider.
func (s *Session) WalletDivider() bool {
	s.mu.Lock()
	controllers := s.controllers
	s.mu.Unlock()
	return ShowWalletDivider(controllers)
}

// Open snapshots the intent, probes and attaches all channels
// concurrently, and requests a payment context when a context-bound
// channel attached. It fails only when the mandatory card channel cannot
// initialize; wallet failures just hide that wallet.
func (s *Session) Open(ctx context.Context, intent Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed() {
		return ErrSessionClosed
	}
	s.intent = intent
	s.total = intent.Total()
	s.controllers = s.registry.build()
	for _, c := range s.controllers {
		s.byID[c.ID] = c
	}

	probeAll(ctx, s.controllers, s.total.TotalCents)

	for _, c := range s.controllers {
		if s.registry.required(c.ID) && c.State() != Attached {
			s.closeLocked()
			return fmt.Errorf("%s channel failed to initialize: %w", c.ID, ErrMisconfigured)
		}
	}

	if err := s.refreshContextLocked(ctx); err != nil {
		// Context-bound channels are optional; hide them and carry on.
		log.Printf("[Checkout] payment context unavailable: %v", err)
	}

	s.setStatus(StatusReady)
	s.notify(Event{Type: EventSessionReady, TotalCents: s.total.TotalCents})
	return nil
}

// refreshContextLocked mints a fresh client secret for the current total
// and hands it to every attached context-bound channel. The previous
// context, if any, is superseded server-side. Caller holds mu.
func (s *Session) refreshContextLocked(ctx context.Context) error {
	bound := make([]*Controller, 0, 1)
	for _, c := range s.controllers {
		if _, ok := c.sdk.(payment.ContextBound); ok && c.State() == Attached {
			bound = append(bound, c)
		}
	}
	if len(bound) == 0 {
		return nil
	}
	secret, ref, err := s.backend.CreatePaymentIntent(ctx, s.intent, s.total.TotalCents, s.intentRef)
	if err != nil {
		for _, c := range bound {
			c.setState(Ineligible)
			c.detach()
		}
		return err
	}
	s.clientSecret = secret
	s.intentRef = ref
	for _, c := range bound {
		c.sdk.(payment.ContextBound).SetClientSecret(secret)
	}
	return nil
}

// UpdateTotal re-snapshots the intent after an edit. It takes the same
// lock as Submit, so an edit during an in-flight attempt queues until the
// attempt resolves. When the total actually changed, the payment context
// is reissued and every attached channel is moved to the new total;
// channels past Attached are left alone.
func (s *Session) UpdateTotal(ctx context.Context, intent Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed() {
		return ErrSessionClosed
	}
	newTotal := intent.Total()
	changed := newTotal.TotalCents != s.total.TotalCents
	s.intent = intent
	s.total = newTotal
	if !changed {
		return nil
	}
	if err := s.refreshContextLocked(ctx); err != nil {
		log.Printf("[Checkout] payment context refresh failed: %v", err)
	}
	for _, c := range s.controllers {
		c.updateTotal(newTotal.TotalCents)
	}
	s.notify(Event{Type: EventTotalUpdated, TotalCents: newTotal.TotalCents})
	return nil
}

// Submit runs one attempt on one channel: tokenize, then exactly one
// backend call under a fresh idempotency key. The total sent is the one
// captured at tokenize-time; holding the session lock for the whole
// attempt keeps it consistent. On success the session closes after the
// confirmation delay; on failure the channel returns to Attached and the
// session stays open for retry.
func (s *Session) Submit(ctx context.Context, channelID string) (*ChargeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	if s.Status() != StatusReady {
		return nil, ErrSessionNotReady
	}
	c, ok := s.byID[channelID]
	if !ok {
		return nil, ErrUnknownChannel
	}

	totalCents := s.total.TotalCents
	token, err := c.tokenize(ctx, totalCents)
	if err != nil {
		if errors.Is(err, ErrTokenizationCanceled) {
			s.notify(Event{Type: EventAttemptCanceled, Channel: channelID})
		} else {
			s.notify(Event{Type: EventAttemptFailed, Channel: channelID, Message: err.Error()})
		}
		return nil, err
	}

	key := uuid.New().String()
	if s.last != nil && s.last.token == token && s.last.channelID == channelID && s.last.totalCents == totalCents {
		// Identical attempt re-sent (e.g. dropped response): reuse the key
		// so the backend dedups instead of double-charging.
		key = s.last.key
	}
	s.last = &attemptRecord{key: key, token: token, channelID: channelID, totalCents: totalCents}

	s.setStatus(StatusSubmitting)
	c.setState(Submitting)

	rec, err := s.backend.Submit(ctx, Submission{
		Token:          token,
		TotalCents:     totalCents,
		IdempotencyKey: key,
		ClientSecret:   s.clientSecret,
		Intent:         s.intent,
	})
	if s.isClosed() {
		// The sheet went away mid-flight; drop the UI effect.
		return nil, ErrSessionClosed
	}
	if err != nil {
		c.setState(Attached)
		s.setStatus(StatusReady)
		s.notify(Event{Type: EventAttemptFailed, Channel: channelID, Message: err.Error()})
		return nil, err
	}

	c.setState(Succeeded)
	s.notify(Event{Type: EventAttemptSucceeded, Channel: channelID, TotalCents: totalCents})
	if s.confirmDelay > 0 {
		select {
		case <-time.After(s.confirmDelay):
		case <-ctx.Done():
		}
	}
	s.closeLocked()
	return rec, nil
}

// Close releases channel resources and discards the session's context and
// idempotency state. It is cooperative: an in-flight network call is not
// aborted, but its eventual result is ignored.
func (s *Session) Close() {
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.stMu.Lock()
	if s.closed {
		s.stMu.Unlock()
		return
	}
	s.closed = true
	s.status = StatusClosed
	s.stMu.Unlock()

	for _, c := range s.controllers {
		c.detach()
	}
	s.notify(Event{Type: EventSessionClosed})
}
