package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/citescan/domain"
	"github.com/ludo-technologies/citescan/internal/config"
)

// mockTask implements domain.ExecutableTask for testing
type mockTask struct {
	name     string
	enabled  bool
	execFunc func(ctx context.Context) (interface{}, error)
}

func (t *mockTask) Name() string { return t.name }

func (t *mockTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execFunc != nil {
		return t.execFunc(ctx)
	}
	return nil, nil
}

func (t *mockTask) IsEnabled() bool { return t.enabled }

func newMockTask(name string, enabled bool, execFunc func(ctx context.Context) (interface{}, error)) *mockTask {
	return &mockTask{name: name, enabled: enabled, execFunc: execFunc}
}

// countingProgress records increments for assertions
type countingProgress struct {
	started   atomic.Int32
	total     atomic.Int32
	increment atomic.Int32
	completed atomic.Bool
}

func (p *countingProgress) StartTask(_ string, total int) domain.TaskProgress {
	p.started.Add(1)
	p.total.Store(int32(total))
	return p
}
func (p *countingProgress) IsInteractive() bool { return false }
func (p *countingProgress) Close()              {}
func (p *countingProgress) Increment(n int)     { p.increment.Add(int32(n)) }
func (p *countingProgress) Describe(string)     {}
func (p *countingProgress) Complete()           { p.completed.Store(true) }

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()

	if executor.maxConcurrency != runtime.NumCPU() {
		t.Errorf("maxConcurrency should be %d, got %d", runtime.NumCPU(), executor.maxConcurrency)
	}
	if executor.timeout != DefaultTimeout {
		t.Errorf("timeout should be %v, got %v", DefaultTimeout, executor.timeout)
	}
}

func TestNewParallelExecutorFromConfig(t *testing.T) {
	tests := []struct {
		name            string
		cfg             *config.PerformanceConfig
		wantConcurrency int
		wantTimeout     time.Duration
	}{
		{"explicit values", &config.PerformanceConfig{MaxGoroutines: 8, TimeoutSeconds: 120}, 8, 120 * time.Second},
		{"zero values fall back", &config.PerformanceConfig{}, runtime.NumCPU(), DefaultTimeout},
		{"nil config", nil, runtime.NumCPU(), DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := NewParallelExecutorFromConfig(tt.cfg)
			if executor.maxConcurrency != tt.wantConcurrency {
				t.Errorf("maxConcurrency should be %d, got %d", tt.wantConcurrency, executor.maxConcurrency)
			}
			if executor.timeout != tt.wantTimeout {
				t.Errorf("timeout should be %v, got %v", tt.wantTimeout, executor.timeout)
			}
		})
	}
}

func TestParallelExecutor_EmptyTaskList(t *testing.T) {
	if err := NewParallelExecutor().Execute(context.Background(), nil); err != nil {
		t.Errorf("expected nil error for empty task list, got %v", err)
	}
}

func TestParallelExecutor_AllTasksSucceed(t *testing.T) {
	var executed atomic.Int32
	tasks := make([]domain.ExecutableTask, 10)
	for i := range tasks {
		tasks[i] = newMockTask(fmt.Sprintf("doc-%d.md", i), true, func(ctx context.Context) (interface{}, error) {
			executed.Add(1)
			return nil, nil
		})
	}

	if err := NewParallelExecutor().Execute(context.Background(), tasks); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if executed.Load() != 10 {
		t.Errorf("expected 10 executions, got %d", executed.Load())
	}
}

func TestParallelExecutor_PartialFailures(t *testing.T) {
	tasks := []domain.ExecutableTask{
		newMockTask("c.md", true, func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("unreadable")
		}),
		newMockTask("b.md", true, nil),
		newMockTask("a.md", true, func(ctx context.Context) (interface{}, error) {
			return nil, domain.NewContentTooLargeError("too many words")
		}),
	}

	err := NewParallelExecutor().Execute(context.Background(), tasks)

	var aggErr *AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected *AggregatedError, got %T", err)
	}
	if len(aggErr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(aggErr.Errors))
	}
	if aggErr.Errors[0].TaskName != "a.md" || aggErr.Errors[1].TaskName != "c.md" {
		t.Errorf("expected errors ordered by task name, got %s, %s", aggErr.Errors[0].TaskName, aggErr.Errors[1].TaskName)
	}
	if domain.ErrorCode(err) != domain.ErrCodeContentTooLarge {
		t.Errorf("expected first error code to be reachable, got %q", domain.ErrorCode(err))
	}
}

func TestParallelExecutor_Timeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetTimeout(50 * time.Millisecond)

	tasks := []domain.ExecutableTask{
		newMockTask("slow.md", true, func(ctx context.Context) (interface{}, error) {
			select {
			case <-time.After(2 * time.Second):
				return nil, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}),
	}

	err := executor.Execute(context.Background(), tasks)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestParallelExecutor_DisabledTasksSkipped(t *testing.T) {
	var executed atomic.Int32
	count := func(ctx context.Context) (interface{}, error) {
		executed.Add(1)
		return nil, nil
	}

	tasks := []domain.ExecutableTask{
		newMockTask("enabled.md", true, count),
		newMockTask("disabled.md", false, count),
	}

	if err := NewParallelExecutor().Execute(context.Background(), tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if executed.Load() != 1 {
		t.Errorf("only enabled task should execute, got %d executions", executed.Load())
	}
}

func TestParallelExecutor_ConcurrencyLimit(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 2, TimeoutSeconds: 30})

	var current, peak atomic.Int32
	var mu sync.Mutex
	work := func(ctx context.Context) (interface{}, error) {
		n := current.Add(1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)
		return nil, nil
	}

	tasks := make([]domain.ExecutableTask, 8)
	for i := range tasks {
		tasks[i] = newMockTask(fmt.Sprintf("doc-%d.md", i), true, work)
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
}

func TestParallelExecutor_Setters(t *testing.T) {
	executor := NewParallelExecutor()

	executor.SetMaxConcurrency(3)
	executor.SetMaxConcurrency(0)
	if executor.maxConcurrency != 3 {
		t.Errorf("expected invalid concurrency to be ignored, got %d", executor.maxConcurrency)
	}

	executor.SetTimeout(time.Second)
	executor.SetTimeout(-1)
	if executor.timeout != time.Second {
		t.Errorf("expected invalid timeout to be ignored, got %v", executor.timeout)
	}
}

func TestParallelExecutor_ProgressIntegration(t *testing.T) {
	pm := &countingProgress{}
	executor := NewParallelExecutorWithProgress(&config.PerformanceConfig{}, pm)

	tasks := []domain.ExecutableTask{
		newMockTask("a.md", true, nil),
		newMockTask("b.md", true, nil),
		newMockTask("c.md", false, nil),
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if pm.started.Load() != 1 || pm.total.Load() != 2 {
		t.Errorf("expected one task of total 2, got started=%d total=%d", pm.started.Load(), pm.total.Load())
	}
	if pm.increment.Load() != 2 {
		t.Errorf("expected 2 increments, got %d", pm.increment.Load())
	}
	if !pm.completed.Load() {
		t.Error("expected progress to be completed")
	}
}

func TestAggregatedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errs     []TaskError
		contains []string
	}{
		{"empty", nil, []string{"no errors"}},
		{"single", []TaskError{{TaskName: "a.md", Err: errors.New("boom")}}, []string{"[a.md] boom"}},
		{
			"multiple",
			[]TaskError{{TaskName: "a.md", Err: errors.New("one")}, {TaskName: "b.md", Err: errors.New("two")}},
			[]string{"2 tasks failed", "1. [a.md] one", "2. [b.md] two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := (&AggregatedError{Errors: tt.errs}).Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("expected %q in %q", want, msg)
				}
			}
		})
	}

	if (&AggregatedError{}).Unwrap() != nil {
		t.Error("expected nil unwrap for empty aggregated error")
	}
}

func TestTaskError_Unwrap(t *testing.T) {
	base := errors.New("base")
	if !errors.Is(TaskError{TaskName: "x", Err: base}, base) {
		t.Error("expected TaskError to unwrap to its cause")
	}
}
