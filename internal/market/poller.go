package market

import (
	"context"
	"log"
	"sync"
	"time"
)

var (
	moverCategories = []string{"", "Memes", "RWA", "AI"}
	popularTabs     = []string{"Top", "BNB", "ETH", "SOL"}
)

// Snapshot is the latest polled market data, keyed by widget tab.
type Snapshot struct {
	TopMovers map[string][]Token
	Popular   map[string][]Token
	UpdatedAt time.Time
}

// Poller refreshes every widget tab on a fixed interval and holds the result
// in memory. It is fire-and-forget: a failed refresh keeps the previous
// snapshot (or the client's fallback rows) and waits for the next tick.
type Poller struct {
	client   *Client
	interval time.Duration

	mu   sync.RWMutex
	snap Snapshot
}

func NewPoller(client *Client, interval time.Duration) *Poller {
	return &Poller{
		client:   client,
		interval: interval,
		snap: Snapshot{
			TopMovers: map[string][]Token{},
			Popular:   map[string][]Token{},
		},
	}
}

// Run refreshes immediately, then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Market poller stopping")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	next := Snapshot{
		TopMovers: make(map[string][]Token, len(moverCategories)),
		Popular:   make(map[string][]Token, len(popularTabs)),
		UpdatedAt: time.Now(),
	}
	for _, category := range moverCategories {
		next.TopMovers[category] = p.client.TopMovers(ctx, category)
	}
	for _, tab := range popularTabs {
		next.Popular[tab] = p.client.PopularTokens(ctx, tab)
	}

	p.mu.Lock()
	p.snap = next
	p.mu.Unlock()
}

// TopMovers serves the cached rows for a category tab, falling through to a
// live fetch for tabs the poller does not track.
func (p *Poller) TopMovers(ctx context.Context, category string) []Token {
	p.mu.RLock()
	rows, ok := p.snap.TopMovers[category]
	p.mu.RUnlock()
	if ok {
		return rows
	}
	return p.client.TopMovers(ctx, category)
}

// PopularTokens serves the cached rows for an ecosystem tab.
func (p *Poller) PopularTokens(ctx context.Context, ecosystem string) []Token {
	p.mu.RLock()
	rows, ok := p.snap.Popular[ecosystem]
	p.mu.RUnlock()
	if ok {
		return rows
	}
	return p.client.PopularTokens(ctx, ecosystem)
}

// Snapshot returns a shallow copy of the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := Snapshot{
		TopMovers: make(map[string][]Token, len(p.snap.TopMovers)),
		Popular:   make(map[string][]Token, len(p.snap.Popular)),
		UpdatedAt: p.snap.UpdatedAt,
	}
	for k, v := range p.snap.TopMovers {
		out.TopMovers[k] = v
	}
	for k, v := range p.snap.Popular {
		out.Popular[k] = v
	}
	return out
}
