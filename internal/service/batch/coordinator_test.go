package batch

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/multigrab/multigrab/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockExecutor records executed configs and returns scripted outcomes.
type mockExecutor struct {
	mu       sync.Mutex
	configs  []domain.DownloadConfig
	failURLs map[string]bool
	panicURL string
}

func (m *mockExecutor) Execute(ctx context.Context, cfg domain.DownloadConfig) bool {
	m.mu.Lock()
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()

	if cfg.URL == m.panicURL {
		panic("engine blew up")
	}
	return !m.failURLs[cfg.URL]
}

func (m *mockExecutor) executedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]string, len(m.configs))
	for i, cfg := range m.configs {
		urls[i] = cfg.URL
	}
	return urls
}

func genericTemplate() domain.DownloadConfig {
	cfg := domain.DefaultConfig()
	cfg.Platform = domain.PlatformUnknown
	cfg.OutputDir = "/tmp/batch-test"
	return cfg
}

func TestRun_PartialFailureIsolation(t *testing.T) {
	urls := []string{
		"https://youtube.com/watch?v=1",
		"https://youtube.com/watch?v=2",
		"https://youtube.com/watch?v=3",
	}
	exec := &mockExecutor{failURLs: map[string]bool{urls[1]: true}}

	c := NewCoordinator(exec, testLogger())
	result := c.Run(context.Background(), urls, genericTemplate(), 2)

	if len(result.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(result.Outcomes))
	}

	failures := 0
	for url, ok := range result.Outcomes {
		if !ok {
			failures++
			if url != urls[1] {
				t.Errorf("unexpected failed URL %q", url)
			}
		}
	}
	if failures != 1 {
		t.Errorf("got %d failures, want 1", failures)
	}

	summary := result.Summary()
	if summary.Total != 3 || summary.Succeeded != 2 {
		t.Errorf("summary = %+v, want total 3 succeeded 2", summary)
	}
	if !reflect.DeepEqual(summary.Failed, []string{urls[1]}) {
		t.Errorf("failed list = %v, want [%s]", summary.Failed, urls[1])
	}
}

func TestRun_PanicConvertedToFailure(t *testing.T) {
	urls := []string{
		"https://youtube.com/watch?v=ok",
		"https://youtube.com/watch?v=boom",
	}
	exec := &mockExecutor{panicURL: urls[1]}

	c := NewCoordinator(exec, testLogger())
	result := c.Run(context.Background(), urls, genericTemplate(), 2)

	if len(result.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(result.Outcomes))
	}
	if !result.Outcomes[urls[0]] {
		t.Error("sibling unit should succeed despite the panic")
	}
	if result.Outcomes[urls[1]] {
		t.Error("panicking unit should be recorded as failed")
	}
}

func TestRun_SingleWorkerPreservesSubmissionOrder(t *testing.T) {
	urls := []string{
		"https://youtube.com/watch?v=a",
		"https://vimeo.com/1",
		"https://tiktok.com/@u/video/2",
		"https://youtu.be/b",
	}
	exec := &mockExecutor{}

	c := NewCoordinator(exec, testLogger())
	c.Run(context.Background(), urls, genericTemplate(), 1)

	if got := exec.executedURLs(); !reflect.DeepEqual(got, urls) {
		t.Errorf("execution order = %v, want %v", got, urls)
	}
}

func TestRun_DuplicateURLsCollapse(t *testing.T) {
	url := "https://youtube.com/watch?v=dup"
	urls := []string{url, "https://vimeo.com/1", url}
	exec := &mockExecutor{}

	c := NewCoordinator(exec, testLogger())
	result := c.Run(context.Background(), urls, genericTemplate(), 2)

	if len(result.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2 distinct entries", len(result.Outcomes))
	}

	summary := result.Summary()
	if summary.Total != 2 {
		t.Errorf("summary total = %d, want distinct key count 2", summary.Total)
	}
	if summary.Succeeded != 2 {
		t.Errorf("summary succeeded = %d, want 2", summary.Succeeded)
	}
}

func TestRun_DetectsPlatformPerURLForGenericTemplate(t *testing.T) {
	urls := []string{
		"https://youtube.com/watch?v=a",
		"https://www.instagram.com/p/b",
	}
	exec := &mockExecutor{}

	c := NewCoordinator(exec, testLogger())
	c.Run(context.Background(), urls, genericTemplate(), 1)

	want := []domain.Platform{domain.PlatformYouTube, domain.PlatformInstagram}
	for i, cfg := range exec.configs {
		if cfg.Platform != want[i] {
			t.Errorf("config %d platform = %q, want %q", i, cfg.Platform, want[i])
		}
	}
}

func TestRun_KeepsTemplatePlatform(t *testing.T) {
	template := genericTemplate()
	template.Platform = domain.PlatformYouTube

	exec := &mockExecutor{}
	c := NewCoordinator(exec, testLogger())
	c.Run(context.Background(), []string{"https://vimeo.com/1"}, template, 1)

	if exec.configs[0].Platform != domain.PlatformYouTube {
		t.Errorf("platform = %q, want template platform kept", exec.configs[0].Platform)
	}
}

func TestRun_ZeroWorkersCoerced(t *testing.T) {
	exec := &mockExecutor{}
	c := NewCoordinator(exec, testLogger())

	result := c.Run(context.Background(), []string{"https://vimeo.com/1"}, genericTemplate(), 0)
	if len(result.Outcomes) != 1 {
		t.Errorf("batch with 0 workers should still complete, got %d outcomes", len(result.Outcomes))
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	exec := &mockExecutor{}
	c := NewCoordinator(exec, testLogger())

	result := c.Run(context.Background(), nil, genericTemplate(), 4)
	if len(result.Outcomes) != 0 {
		t.Errorf("empty batch should yield no outcomes, got %d", len(result.Outcomes))
	}

	summary := result.Summary()
	if summary.Total != 0 || summary.Succeeded != 0 || len(summary.Failed) != 0 {
		t.Errorf("empty summary = %+v", summary)
	}
}
