package invoke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/metrics"
	openaiTransport "github.com/NeilARaman/Echo/internal/transport/openai"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type mockChat struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (m *mockChat) Complete(
	_ context.Context, model, _, _ string, _ float32, _ int,
) (string, error) {
	m.calls = append(m.calls, model)
	if err, ok := m.errs[model]; ok {
		return "", err
	}
	return m.responses[model], nil
}

func TestGenerate_FirstModelWins(t *testing.T) {
	chat := &mockChat{responses: map[string]string{"m1": "answer"}}
	svc := New(chat, []string{"m1", "m2"}, 0, 0, zap.NewNop())

	res, err := svc.Generate(context.Background(), "sys", "user", 0.3, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UsedModel != "m1" || res.Text != "answer" {
		t.Errorf("unexpected result: %+v", res)
	}
	if len(chat.calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(chat.calls))
	}
}

func TestGenerate_FallbackAdvances(t *testing.T) {
	chat := &mockChat{
		responses: map[string]string{"m2": "recovered"},
		errs:      map[string]error{"m1": errors.New("overloaded")},
	}
	svc := New(chat, []string{"m1", "m2"}, 0, 0, zap.NewNop())

	res, err := svc.Generate(context.Background(), "sys", "user", 0.3, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UsedModel != "m2" {
		t.Errorf("expected m2, got %q", res.UsedModel)
	}
	if res.Text != "recovered" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestGenerate_Exhaustion(t *testing.T) {
	chat := &mockChat{
		errs: map[string]error{
			"m1": errors.New("down"),
			"m2": domain.ErrModelNotFound,
		},
	}
	svc := New(chat, []string{"m1", "m2"}, 0, 0, zap.NewNop())

	res, err := svc.Generate(context.Background(), "sys", "user", 0.3, 500)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if res.Text != "" || res.UsedModel != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestGenerate_DeduplicatesCandidates(t *testing.T) {
	chat := &mockChat{errs: map[string]error{"m1": errors.New("down")}}
	svc := New(chat, []string{"m1", "m1", "", "m1"}, 0, 0, zap.NewNop())

	if _, err := svc.Generate(context.Background(), "sys", "user", 0.3, 500); err == nil {
		t.Fatal("expected error")
	}
	if len(chat.calls) != 1 {
		t.Errorf("expected m1 tried once, got calls %v", chat.calls)
	}
}

func TestGenerate_NoModels(t *testing.T) {
	svc := New(&mockChat{}, nil, 0, 0, zap.NewNop())

	_, err := svc.Generate(context.Background(), "sys", "user", 0.3, 500)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Rate limited so Wait observes the cancelled context.
	svc := New(&mockChat{responses: map[string]string{"m1": "x"}}, []string{"m1"}, 1, 1, zap.NewNop())
	svc.limiter.Allow() // drain the burst token

	if _, err := svc.Generate(ctx, "sys", "user", 0.3, 500); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestGenerate_CountsAttemptOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"chat.completion","choices":[{"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zap.NewNop(),
	})
	svc := New(client, []string{"gpt-4.1-mini"}, 0, 0, zap.NewNop())

	counter := metrics.ModelRequestsTotal.WithLabelValues("gpt-4.1-mini", "success")
	before := testutil.ToFloat64(counter)

	if _, err := svc.Generate(context.Background(), "sys", "user", 0.3, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("one successful attempt moved the success counter by %v, want 1", got)
	}
}
