package predict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestPredictAllPopulatesEveryProviderWithoutCredentials(t *testing.T) {
	o := NewOrchestrator(Credentials{})

	set := o.PredictAll(context.Background(), lopsidedGame())

	if set.GameID != "bos-nyy" {
		t.Fatalf("unexpected game id %q", set.GameID)
	}
	if len(set.ByProvider) != len(ProviderNames) {
		t.Fatalf("expected %d provider entries, got %d", len(ProviderNames), len(set.ByProvider))
	}
	for _, name := range ProviderNames {
		if set.ByProvider[name] == "" {
			t.Errorf("provider %s has no prediction text", name)
		}
	}
	if set.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not set")
	}
}

func TestPredictOneRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Boston Red Sox - New York Yankees: 4-2\nSolid pitching matchup."}}]}`))
	}))
	defer server.Close()

	o := NewOrchestrator(Credentials{OpenAI: "test-key"})
	o.lookup(ProviderOpenAI).endpoint = server.URL

	var delays []time.Duration
	o.sleep = func(d time.Duration) { delays = append(delays, d) }

	text := o.PredictOne(context.Background(), ProviderOpenAI, lopsidedGame())

	if !strings.HasPrefix(text, "Boston Red Sox - New York Yankees: 4-2") {
		t.Fatalf("expected provider text after retries, got %q", text)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("expected backoff [1s 2s], got %v", delays)
	}
}

func TestPredictOneExhaustedRetriesFallsBack(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	o := NewOrchestrator(Credentials{DeepSeek: "test-key"})
	o.lookup(ProviderDeepSeek).endpoint = server.URL
	o.sleep = func(time.Duration) {}

	text := o.PredictOne(context.Background(), ProviderDeepSeek, lopsidedGame())

	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts before fallback, got %d", calls.Load())
	}
	if !strings.Contains(text, "Comparing win percentages") {
		t.Fatalf("expected deepseek fallback text, got %q", text)
	}
}

func TestPredictOneTerminalErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	o := NewOrchestrator(Credentials{Claude: "bad-key"})
	o.lookup(ProviderClaude).endpoint = server.URL
	o.sleep = func(d time.Duration) { t.Errorf("unexpected sleep %v on terminal error", d) }

	text := o.PredictOne(context.Background(), ProviderClaude, lopsidedGame())

	if calls.Load() != 1 {
		t.Fatalf("terminal errors must not retry, got %d attempts", calls.Load())
	}
	if !strings.Contains(text, "Statistical analysis") {
		t.Fatalf("expected claude fallback text, got %q", text)
	}
}

func TestPredictOneUnknownProviderFallsBack(t *testing.T) {
	o := NewOrchestrator(Credentials{})

	text := o.PredictOne(context.Background(), "mystery", lopsidedGame())
	if !strings.Contains(text, "stronger record") {
		t.Fatalf("expected generic fallback text, got %q", text)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := withRetry(ctx, nil, func() (string, error) {
		return "", &transientError{status: http.StatusInternalServerError}
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
