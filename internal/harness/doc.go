// Package harness replays scripted recipe book sessions and checks the
// outcome.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	seed: '[{"title":"Tea","ingredients":["water"],"instructions":"Boil"}]'
//	steps:
//	  - op: create
//	    recipe: {title: Toast, ingredients: [bread], instructions: Toast it}
//	  - op: edit
//	    index: 0
//	  - op: submit
//	    recipe: {title: Green Tea, ingredients: [water], instructions: Steep}
//	  - op: delete
//	    index: 5
//	    expect_error: out of range
//	assertions:
//	  - type: length
//	    count: 2
//	  - type: titles
//	    titles: [Green Tea, Toast]
//	  - type: persisted
//	    value: '[...]'
//
// # Step Operations
//
//   - create, submit: take a recipe
//   - update: takes index (or id) and a recipe
//   - delete, edit: take index (or id)
//   - cancel: clears the editing slot
//   - reload: re-reads the book from the store
//
// # Assertion Types
//
//   - length: the collection has exactly count recipes
//   - titles: titles match in order
//   - persisted: the stored value equals value
//   - editing: the editing slot is index, or empty when index is omitted
//   - contains: a recipe with the given content is present
//
// Each run uses a fresh in-memory store and sequential IDs, so snapshots
// compare cleanly against golden files.
package harness
