package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/recipebook/internal/book"
	"github.com/roach88/recipebook/internal/store"
	"github.com/roach88/recipebook/internal/testutil"
)

// Harness runs one scenario against a fresh book.
type Harness struct {
	book *book.Book
	seq  int
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store with sequential IDs
// (rec-0001, rec-0002, ...), so persisted values are reproducible.
//
// Execution flow:
//  1. Store the seed value (if any) under the scenario key
//  2. Load the book
//  3. Execute steps, checking expected errors
//  4. Evaluate assertions against the final state
//
// A non-nil error means the harness itself could not run; scenario
// failures are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	kv := store.NewMemory()

	key := scenario.Key
	if key == "" {
		key = book.DefaultKey
	}
	if scenario.Seed != "" {
		if err := kv.Set(ctx, key, scenario.Seed); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	h := &Harness{
		book: book.New(kv,
			book.WithKey(key),
			book.WithIDGenerator(testutil.NewSequentialIDs("")),
			book.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs
		),
	}

	if err := h.book.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	raw, _, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted value: %w", err)
	}
	result.Persisted = raw
	result.Final = h.book.State()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep runs one step and records it in the trace. Errors are
// checked against the step's ExpectError.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	h.seq++
	event := TraceEvent{Seq: h.seq, Op: step.Op, Index: step.Index, ID: step.ID}
	if step.Recipe != nil {
		event.Title = step.Recipe.Title
	}

	err := h.apply(ctx, step)

	event.Length = h.book.Len()
	if err != nil {
		event.Error = err.Error()
	}
	result.Trace = append(result.Trace, event)

	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, step.Op, err))
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error containing %q, got success", i, step.Op, step.ExpectError))
	case step.ExpectError != "" && !strings.Contains(err.Error(), step.ExpectError):
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error containing %q, got %q", i, step.Op, step.ExpectError, err.Error()))
	}
}

func (h *Harness) apply(ctx context.Context, step Step) error {
	switch step.Op {
	case OpCreate:
		_, err := h.book.Create(ctx, step.Recipe.Recipe())
		return err
	case OpSubmit:
		_, err := h.book.Submit(ctx, step.Recipe.Recipe())
		return err
	case OpUpdate:
		i, err := h.resolve(step)
		if err != nil {
			return err
		}
		return h.book.Update(ctx, i, step.Recipe.Recipe())
	case OpDelete:
		i, err := h.resolve(step)
		if err != nil {
			return err
		}
		_, err = h.book.Delete(ctx, i)
		return err
	case OpEdit:
		i, err := h.resolve(step)
		if err != nil {
			return err
		}
		return h.book.BeginEdit(i)
	case OpCancel:
		h.book.CancelEdit()
		return nil
	case OpReload:
		return h.book.Load(ctx)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// resolve turns a step's address into an index. Index wins over ID.
// Positional indices are passed through unchecked so the book reports
// out-of-range access itself.
func (h *Harness) resolve(step Step) (int, error) {
	if step.Index != nil {
		return *step.Index, nil
	}
	return h.book.IndexOf(step.ID)
}
