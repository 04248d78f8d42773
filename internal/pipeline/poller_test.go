package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"brandforge/internal/domain"
	"brandforge/internal/providers/genai"
)

type fakeOperationService struct {
	calls int
	fn    func(call int) (*genai.Operation, error)
}

func (f *fakeOperationService) Operation(ctx context.Context, name string) (*genai.Operation, error) {
	f.calls++
	return f.fn(f.calls)
}

// completedOperation builds a done operation through the wire format, the only
// way the response payload is ever populated in production.
func completedOperation(t *testing.T, uri string) *genai.Operation {
	t.Helper()
	raw := `{"name":"operations/abc","done":true}`
	if uri != "" {
		raw = `{"name":"operations/abc","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"` + uri + `"}}]}}}`
	}
	var op genai.Operation
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		t.Fatalf("unmarshal operation: %v", err)
	}
	return &op
}

func testPoller(svc OperationService, maxPolls int) *JobPoller {
	return NewJobPoller(PollerOptions{Service: svc, Interval: time.Millisecond, MaxPolls: maxPolls})
}

func TestAwaitReturnsResultURI(t *testing.T) {
	svc := &fakeOperationService{fn: func(call int) (*genai.Operation, error) {
		if call < 3 {
			return &genai.Operation{Name: "operations/abc"}, nil
		}
		return completedOperation(t, "https://videos.example.com/final.mp4"), nil
	}}
	uri, err := testPoller(svc, 10).Await(context.Background(), &genai.Operation{Name: "operations/abc"})
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if uri != "https://videos.example.com/final.mp4" {
		t.Fatalf("uri = %q", uri)
	}
	if svc.calls != 3 {
		t.Fatalf("service polled %d times, want 3", svc.calls)
	}
}

func TestAwaitNeverDoneTimesOutAtCeiling(t *testing.T) {
	svc := &fakeOperationService{fn: func(int) (*genai.Operation, error) {
		return &genai.Operation{Name: "operations/abc"}, nil
	}}
	_, err := testPoller(svc, 7).Await(context.Background(), &genai.Operation{Name: "operations/abc"})
	if !errors.Is(err, domain.ErrJobTimeout) {
		t.Fatalf("err = %v, want ErrJobTimeout", err)
	}
	if svc.calls > 7 {
		t.Fatalf("service polled %d times, ceiling is 7", svc.calls)
	}
}

func TestAwaitDoneWithoutURIIsJobFailed(t *testing.T) {
	_, err := testPoller(&fakeOperationService{}, 5).Await(context.Background(), completedOperation(t, ""))
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("err = %v, want ErrJobFailed", err)
	}
}

func TestAwaitOperationErrorIsJobFailed(t *testing.T) {
	op := &genai.Operation{
		Name:  "operations/abc",
		Done:  true,
		Error: &genai.OperationError{Code: 13, Message: "internal rendering error"},
	}
	_, err := testPoller(&fakeOperationService{}, 5).Await(context.Background(), op)
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("err = %v, want ErrJobFailed", err)
	}
	if !strings.Contains(err.Error(), "internal rendering error") {
		t.Fatalf("err %q must carry the operation message", err)
	}
}

func TestAwaitPollErrorsAreSkipped(t *testing.T) {
	svc := &fakeOperationService{fn: func(call int) (*genai.Operation, error) {
		if call == 1 {
			return nil, errors.New("transient network error")
		}
		return completedOperation(t, "https://videos.example.com/final.mp4"), nil
	}}
	uri, err := testPoller(svc, 10).Await(context.Background(), &genai.Operation{Name: "operations/abc"})
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if uri == "" {
		t.Fatal("expected a result uri after a transient poll failure")
	}
}

func TestAwaitHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &fakeOperationService{fn: func(int) (*genai.Operation, error) {
		return &genai.Operation{Name: "operations/abc"}, nil
	}}
	_, err := NewJobPoller(PollerOptions{Service: svc, Interval: time.Second, MaxPolls: 5}).
		Await(ctx, &genai.Operation{Name: "operations/abc"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAwaitNilOperation(t *testing.T) {
	_, err := testPoller(&fakeOperationService{}, 5).Await(context.Background(), nil)
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("err = %v, want ErrJobFailed", err)
	}
}
