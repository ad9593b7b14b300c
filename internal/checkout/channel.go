package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"

	"giveflow/pkg/payment"
)

type ChannelState int

const (
	Unprobed ChannelState = iota
	Ineligible
	EligibleUnattached
	Attached
	AwaitingUserAction
	Tokenizing
	Submitting
	Succeeded
	Failed
)

var channelStateNames = map[ChannelState]string{
	Unprobed:           "UNPROBED",
	Ineligible:         "INELIGIBLE",
	EligibleUnattached: "ELIGIBLE_UNATTACHED",
	Attached:           "ATTACHED",
	AwaitingUserAction: "AWAITING_USER_ACTION",
	Tokenizing:         "TOKENIZING",
	Submitting:         "SUBMITTING",
	Succeeded:          "SUCCEEDED",
	Failed:             "FAILED",
}

func (s ChannelState) String() string {
	if name, ok := channelStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ChannelState(%d)", int(s))
}

// Controller owns one channel's lifecycle. Every channel variant runs the
// same machine; the differing protocols live behind the SDK.
type Controller struct {
	ID   string
	node string
	sdk  payment.SDK

	mu    sync.Mutex
	state ChannelState
}

func newController(id, node string, sdk payment.SDK) *Controller {
	return &Controller{ID: id, node: node, sdk: sdk, state: Unprobed}
}

func (c *Controller) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s ChannelState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// probe runs the channel's eligibility check. Failures of any kind are
// contained here and reported as Ineligible so sibling probes are never
// affected.
func (c *Controller) probe(ctx context.Context, totalCents int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Checkout] probe panic on %s: %v", c.ID, r)
			c.setState(Ineligible)
		}
	}()
	eligible, err := c.sdk.Probe(ctx, totalCents)
	if err != nil || !eligible {
		if err != nil {
			log.Printf("[Checkout] probe failed on %s: %v", c.ID, err)
		}
		c.setState(Ineligible)
		return
	}
	c.setState(EligibleUnattached)
}

// attach renders the channel's affordance. Attach failure reverts the
// channel to Ineligible and it stays hidden.
func (c *Controller) attach() {
	if c.State() != EligibleUnattached {
		return
	}
	if err := c.sdk.Attach(c.node); err != nil {
		log.Printf("[Checkout] attach failed on %s: %v", c.ID, err)
		c.setState(Ineligible)
		return
	}
	c.setState(Attached)
}

// tokenize drives Attached → AwaitingUserAction → Tokenizing and yields a
// token. A cancel or provider failure returns the channel to Attached.
func (c *Controller) tokenize(ctx context.Context, totalCents int64) (string, error) {
	switch c.State() {
	case Attached:
	case Ineligible:
		return "", ErrChannelIneligible
	default:
		return "", ErrChannelNotReady
	}
	c.setState(AwaitingUserAction)
	c.setState(Tokenizing)
	res, err := c.sdk.Tokenize(ctx, totalCents)
	if err != nil {
		c.setState(Attached)
		return "", &TokenizationError{Channel: c.ID, Err: err}
	}
	if res.Status == payment.TokenizeCanceled {
		c.setState(Attached)
		return "", ErrTokenizationCanceled
	}
	if res.Token == "" {
		c.setState(Attached)
		return "", &TokenizationError{Channel: c.ID, Err: fmt.Errorf("empty token: %s", res.Detail)}
	}
	return res.Token, nil
}

// updateTotal pushes a changed total into an attached channel: in place
// when the SDK supports it, otherwise by recycling the attachment.
func (c *Controller) updateTotal(totalCents int64) {
	if c.State() != Attached {
		return
	}
	if u, ok := c.sdk.(payment.TotalUpdater); ok {
		if err := u.UpdateTotal(totalCents); err == nil {
			return
		}
	}
	c.sdk.Detach()
	if err := c.sdk.Attach(c.node); err != nil {
		log.Printf("[Checkout] reattach failed on %s: %v", c.ID, err)
		c.setState(Ineligible)
	}
}

func (c *Controller) detach() {
	c.sdk.Detach()
}
