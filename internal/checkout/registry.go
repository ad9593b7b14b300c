package checkout

import (
	"context"
	"sync"

	"giveflow/pkg/payment"
)

const (
	ChannelCard      = "card"
	ChannelBankDebit = "bankdebit"
)

// ChannelSpec declares one channel: its ID, the DOM node its affordance
// mounts into, and whether the session cannot open without it.
type ChannelSpec struct {
	ID       string
	Node     string
	Required bool
}

// DefaultChannels is the declared channel set. Card is the mandatory
// default; wallets and bank debit are best-effort.
func DefaultChannels() []ChannelSpec {
	return []ChannelSpec{
		{ID: ChannelCard, Node: "#card-container", Required: true},
		{ID: "applepay", Node: "#apple-pay-btn"},
		{ID: "googlepay", Node: "#google-pay-btn"},
		{ID: "cashapp", Node: "#cash-app-pay-btn"},
		{ID: ChannelBankDebit, Node: "#bank-debit-btn"},
	}
}

// SDKFactory builds the SDK instance for a channel ID. Controllers are
// recreated per session open, so the factory is called fresh each time.
type SDKFactory func(channelID string) payment.SDK

// Registry declares the possible channels and builds their controllers.
type Registry struct {
	specs   []ChannelSpec
	factory SDKFactory
}

func NewRegistry(specs []ChannelSpec, factory SDKFactory) *Registry {
	return &Registry{specs: specs, factory: factory}
}

func (r *Registry) build() []*Controller {
	controllers := make([]*Controller, 0, len(r.specs))
	for _, spec := range r.specs {
		controllers = append(controllers, newController(spec.ID, spec.Node, r.factory(spec.ID)))
	}
	return controllers
}

func (r *Registry) required(id string) bool {
	for _, spec := range r.specs {
		if spec.ID == id {
			return spec.Required
		}
	}
	return false
}

// probeAll probes every channel concurrently, with no ordering guarantee
// and no shared state between probes, then attaches the eligible ones.
// Eligibility is strictly best-effort: one probe's failure never aborts a
// sibling.
func probeAll(ctx context.Context, controllers []*Controller, totalCents int64) {
	var wg sync.WaitGroup
	for _, c := range controllers {
		wg.Add(1)
		go func(c *Controller) {
			defer wg.Done()
			c.probe(ctx, totalCents)
			c.attach()
		}(c)
	}
	wg.Wait()
}

// ShowWalletDivider reports whether the host UI should render the divider
// between the wallet group and the card form: true iff at least one
// non-card channel made it to Attached.
func ShowWalletDivider(controllers []*Controller) bool {
	for _, c := range controllers {
		if c.ID != ChannelCard && c.State() == Attached {
			return true
		}
	}
	return false
}
