package predict

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortuna/augur/internal/store"
)

// providerTimeout bounds each individual completion call. Exceeding it
// counts as a transient failure eligible for retry.
const providerTimeout = 10 * time.Second

// Orchestrator fans a game out to every configured provider and collects
// one prediction per provider. Failures never propagate: each provider
// slot resolves to real completion text or to the heuristic fallback.
type Orchestrator struct {
	httpClient *http.Client
	providers  []*provider

	// sleep is swapped out by tests; nil means real context-aware delay.
	sleep func(time.Duration)
}

// NewOrchestrator creates an orchestrator over the fixed provider table.
func NewOrchestrator(creds Credentials) *Orchestrator {
	return &Orchestrator{
		httpClient: &http.Client{Timeout: providerTimeout},
		providers:  newProviders(creds),
	}
}

// PredictAll requests a prediction from every provider concurrently and
// waits for all of them to settle. The returned set always has every
// provider key populated; completion order is irrelevant.
func (o *Orchestrator) PredictAll(ctx context.Context, game store.Game) store.PredictionSet {
	set := store.PredictionSet{
		GameID:      game.ID,
		ByProvider:  make(map[string]string, len(o.providers)),
		GeneratedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, p := range o.providers {
		p := p
		g.Go(func() error {
			text := o.PredictOne(ctx, p.name, game)
			mu.Lock()
			set.ByProvider[p.name] = text
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures resolve to fallback text.
	_ = g.Wait()

	return set
}

// PredictOne returns prediction text for one provider. It never fails: a
// missing credential skips the network entirely, and any terminal error or
// retry exhaustion resolves to the fallback predictor.
func (o *Orchestrator) PredictOne(ctx context.Context, providerName string, game store.Game) string {
	p := o.lookup(providerName)
	if p == nil {
		return Fallback(providerName, game)
	}
	if p.apiKey == "" {
		log.Printf("[predict] %s: no credential configured, using fallback", p.name)
		return Fallback(p.name, game)
	}

	prompt := BuildPrompt(game)
	text, err := withRetry(ctx, o.sleep, func() (string, error) {
		return o.call(ctx, p, prompt)
	})
	if err != nil {
		log.Printf("[predict] ⚠️  %s failed for %s: %v (using fallback)", p.name, game.ID, err)
		return Fallback(p.name, game)
	}
	return text
}

// call performs a single completion request against one provider.
func (o *Orchestrator) call(ctx context.Context, p *provider, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	req, err := p.newRequest(ctx, p, prompt)
	if err != nil {
		return "", err
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &transientError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s status %d: %s", p.name, resp.StatusCode, truncate(body, 200))
	}

	return p.parse(body)
}

func (o *Orchestrator) lookup(name string) *provider {
	for _, p := range o.providers {
		if p.name == name {
			return p
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
