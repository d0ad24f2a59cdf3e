package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Op)
			if event.Index != nil {
				fmt.Fprintf(&buf, " index=%d", *event.Index)
			}
			if event.Title != "" {
				fmt.Fprintf(&buf, " %q", event.Title)
			}
			fmt.Fprintf(&buf, " -> len=%d", event.Length)
			if event.Error != "" {
				fmt.Fprintf(&buf, " error=%q", event.Error)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	errs := []string{}
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertLength:
		return assertLength(result, a)
	case AssertTitles:
		return assertTitles(result, a)
	case AssertPersisted:
		return assertPersisted(result, a)
	case AssertEditing:
		return assertEditing(result, a)
	case AssertContains:
		return assertContains(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertLength(result *Result, a Assertion) error {
	got := len(result.Final.Recipes)
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertLength,
		Expected: fmt.Sprintf("%d recipes", *a.Count),
		Actual:   fmt.Sprintf("%d recipes", got),
		Trace:    result.Trace,
	}
}

func assertTitles(result *Result, a Assertion) error {
	got := make([]string, len(result.Final.Recipes))
	for i, r := range result.Final.Recipes {
		got[i] = r.Title
	}
	if slices.Equal(got, a.Titles) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTitles,
		Expected: fmt.Sprintf("%q", a.Titles),
		Actual:   fmt.Sprintf("%q", got),
		Trace:    result.Trace,
	}
}

func assertPersisted(result *Result, a Assertion) error {
	want := strings.TrimSpace(*a.Value)
	if result.Persisted == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertPersisted,
		Expected: want,
		Actual:   result.Persisted,
		Trace:    result.Trace,
	}
}

func assertEditing(result *Result, a Assertion) error {
	st := result.Final
	switch {
	case a.Index == nil && !st.Editing():
		return nil
	case a.Index != nil && st.EditingIndex == *a.Index:
		return nil
	}

	expected := "not editing"
	if a.Index != nil {
		expected = fmt.Sprintf("editing index %d", *a.Index)
	}
	actual := "not editing"
	if st.Editing() {
		actual = fmt.Sprintf("editing index %d", st.EditingIndex)
	}
	return &AssertionError{
		Type:     AssertEditing,
		Expected: expected,
		Actual:   actual,
		Trace:    result.Trace,
	}
}

func assertContains(result *Result, a Assertion) error {
	want := a.Recipe.Recipe()
	for _, r := range result.Final.Recipes {
		if r.SameContent(want) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: fmt.Sprintf("recipe %q with ingredients %q", want.Title, want.Ingredients),
		Actual:   "not found",
		Trace:    result.Trace,
	}
}
