package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recipebook/internal/recipe"
)

// Scenario is a scripted sequence of book operations with expectations
// on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Key overrides the store key (default "recipes").
	Key string `yaml:"key,omitempty"`

	// Seed is the raw value stored under Key before the book loads.
	// Leave empty to start with nothing persisted.
	Seed string `yaml:"seed,omitempty"`

	// Steps run in order against the loaded book.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one book operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Index addresses a recipe by position (update, delete, edit).
	Index *int `yaml:"index,omitempty"`

	// ID addresses a recipe by stable ID instead of Index.
	ID string `yaml:"id,omitempty"`

	// Recipe is the record for create, update and submit.
	Recipe *RecipeInput `yaml:"recipe,omitempty"`

	// ExpectError, when set, requires the step to fail with an error whose
	// message contains this text. Without it, any error fails the scenario.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// RecipeInput is a recipe as written in scenario files.
type RecipeInput struct {
	Title        string   `yaml:"title"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions string   `yaml:"instructions"`
}

// Recipe converts the input to a recipe.Recipe.
func (in RecipeInput) Recipe() recipe.Recipe {
	ingredients := in.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return recipe.Recipe{
		Title:        in.Title,
		Ingredients:  ingredients,
		Instructions: in.Instructions,
	}
}

// Step operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpEdit   = "edit"
	OpSubmit = "submit"
	OpCancel = "cancel"
	OpReload = "reload"
)

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "length": collection has exactly Count recipes
	// - "titles": titles appear exactly as Titles, in order
	// - "persisted": stored value equals Value byte for byte
	// - "editing": editing slot is Index (or empty when Index is omitted)
	// - "contains": a recipe with Recipe's content is present
	Type string `yaml:"type"`

	Count  *int         `yaml:"count,omitempty"`
	Titles []string     `yaml:"titles,omitempty"`
	Value  *string      `yaml:"value,omitempty"`
	Index  *int         `yaml:"index,omitempty"`
	Recipe *RecipeInput `yaml:"recipe,omitempty"`
}

// Assertion type constants.
const (
	AssertLength    = "length"
	AssertTitles    = "titles"
	AssertPersisted = "persisted"
	AssertEditing   = "editing"
	AssertContains  = "contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	addressed := st.Index != nil || st.ID != ""
	switch st.Op {
	case OpCreate, OpSubmit:
		if st.Recipe == nil {
			return fmt.Errorf("steps[%d]: recipe is required for %s", index, st.Op)
		}
	case OpUpdate:
		if !addressed {
			return fmt.Errorf("steps[%d]: index or id is required for update", index)
		}
		if st.Recipe == nil {
			return fmt.Errorf("steps[%d]: recipe is required for update", index)
		}
	case OpDelete, OpEdit:
		if !addressed {
			return fmt.Errorf("steps[%d]: index or id is required for %s", index, st.Op)
		}
	case OpCancel, OpReload:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertLength:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for length", index)
		}
	case AssertTitles:
		if a.Titles == nil {
			return fmt.Errorf("assertions[%d]: titles list is required for titles", index)
		}
	case AssertPersisted:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for persisted", index)
		}
	case AssertEditing:
	case AssertContains:
		if a.Recipe == nil {
			return fmt.Errorf("assertions[%d]: recipe is required for contains", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
