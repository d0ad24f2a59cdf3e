package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformed reports a persisted value that is not a recipe collection:
// invalid JSON, a non-array, or records with wrong field types.
var ErrMalformed = errors.New("malformed recipe collection")

// Marshal serialises the whole collection deterministically.
//
// Output properties:
//   - object keys in fixed sorted order (id, ingredients, instructions, title)
//   - no HTML escaping (<, >, & are written literally)
//   - all strings NFC normalized
//   - empty or nil collection is written as []
//   - an empty ID is omitted
func Marshal(recipes []Recipe) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range recipes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeRecipe(&buf, r); err != nil {
			return nil, fmt.Errorf("recipe[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Unmarshal parses a persisted collection. The value is checked against the
// collection schema first; any mismatch is reported as ErrMalformed.
func Unmarshal(data []byte) ([]Recipe, error) {
	if err := validateCollection(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Return empty slice instead of nil
	if recipes == nil {
		recipes = []Recipe{}
	}
	for i := range recipes {
		recipes[i] = recipes[i].Normalize()
	}
	return recipes, nil
}

func writeRecipe(buf *bytes.Buffer, r Recipe) error {
	buf.WriteByte('{')
	if r.ID != "" {
		if err := writeField(buf, "id", r.ID); err != nil {
			return err
		}
		buf.WriteByte(',')
	}

	buf.WriteString(`"ingredients":[`)
	for i, ing := range r.Ingredients {
		if i > 0 {
			buf.WriteByte(',')
		}
		s, err := marshalString(ing)
		if err != nil {
			return fmt.Errorf("ingredients[%d]: %w", i, err)
		}
		buf.Write(s)
	}
	buf.WriteString("],")

	if err := writeField(buf, "instructions", r.Instructions); err != nil {
		return err
	}
	buf.WriteByte(',')
	if err := writeField(buf, "title", r.Title); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeField(buf *bytes.Buffer, key, value string) error {
	s, err := marshalString(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":`)
	buf.Write(s)
	return nil
}

// marshalString writes a JSON string with NFC normalization and without
// HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
