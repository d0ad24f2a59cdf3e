package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/roach88/recipebook/internal/recipe"
	"github.com/roach88/recipebook/internal/store"
)

// DefaultKey is the store key holding the serialized collection.
const DefaultKey = "recipes"

// Book owns the in-memory recipe sequence and keeps it equal to the value
// persisted under its key after every mutation.
//
// Every mutation follows the same cycle: compute the next sequence, persist
// it, then swap it in and notify renderers. A failed write leaves both the
// memory and the store untouched.
//
// Thread-safety: Book is safe for concurrent use. Renderers run after the
// internal lock is released and may call back into the Book.
type Book struct {
	kv     store.KV
	key    string
	ids    IDGenerator
	logger *slog.Logger

	mu        sync.Mutex
	recipes   []recipe.Recipe
	editing   int
	renderers []Renderer
}

// Option configures a Book.
type Option func(*Book)

// WithKey overrides the store key (default "recipes").
func WithKey(key string) Option {
	return func(b *Book) { b.key = key }
}

// WithIDGenerator overrides the ID generator (default UUIDv7).
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Book) { b.ids = g }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// New creates an empty Book backed by kv. Call Load to read persisted state.
func New(kv store.KV, opts ...Option) *Book {
	b := &Book{
		kv:      kv,
		key:     DefaultKey,
		ids:     UUIDv7Generator{},
		logger:  slog.Default(),
		recipes: []recipe.Recipe{},
		editing: NotEditing,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Key returns the store key the book persists to.
func (b *Book) Key() string {
	return b.key
}

// Subscribe registers r to receive a State after every change.
func (b *Book) Subscribe(r Renderer) {
	b.mu.Lock()
	b.renderers = append(b.renderers, r)
	b.mu.Unlock()
}

// Load replaces the in-memory sequence with the persisted one.
//
// A missing key yields an empty book. A malformed value (not an array, wrong
// field types) also yields an empty book and is logged; it stays in the
// store until the next successful save overwrites it. Records without an ID
// are assigned one, and a value that is not in canonical form is rewritten
// so later loads see the same IDs. The editing slot is cleared.
func (b *Book) Load(ctx context.Context) error {
	raw, ok, err := b.kv.Get(ctx, b.key)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	loaded := []recipe.Recipe{}
	valid := ok
	if ok {
		loaded, err = recipe.Unmarshal([]byte(raw))
		if errors.Is(err, recipe.ErrMalformed) {
			b.logger.Warn("ignoring malformed stored recipes", "key", b.key, "error", err)
			loaded = []recipe.Recipe{}
			valid = false
		} else if err != nil {
			return fmt.Errorf("load recipes: %w", err)
		}
	}

	rewrite := false
	for i := range loaded {
		if loaded[i].ID == "" {
			loaded[i].ID = b.ids.Generate()
			rewrite = true
		}
	}
	if valid && !rewrite {
		canonical, err := recipe.Marshal(loaded)
		rewrite = err == nil && string(canonical) != raw
	}

	b.mu.Lock()
	if rewrite {
		if err := b.persistLocked(ctx, loaded); err != nil {
			b.mu.Unlock()
			return fmt.Errorf("load recipes: %w", err)
		}
		b.logger.Debug("rewrote stored recipes in canonical form", "key", b.key)
	}
	b.recipes = loaded
	b.editing = NotEditing
	st := b.snapshotLocked()
	b.mu.Unlock()

	b.logger.Debug("recipes loaded", "key", b.key, "count", len(loaded))
	b.notify(st)
	return nil
}

// Save serializes the whole sequence and overwrites the persisted value.
func (b *Book) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistLocked(ctx, b.recipes)
}

// Create appends r to the end of the sequence and returns it with its new ID.
func (b *Book) Create(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	if err := r.Validate(); err != nil {
		return recipe.Recipe{}, err
	}

	b.mu.Lock()
	created, st, err := b.createLocked(ctx, r)
	b.mu.Unlock()
	if err != nil {
		return recipe.Recipe{}, err
	}

	b.notify(st)
	return created, nil
}

// Update replaces the recipe at index i with r. The stored ID is kept.
func (b *Book) Update(ctx context.Context, i int, r recipe.Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	st, err := b.updateLocked(ctx, i, r, b.editing)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	b.notify(st)
	return nil
}

// UpdateByID replaces the recipe carrying id.
func (b *Book) UpdateByID(ctx context.Context, id string, r recipe.Recipe) error {
	i, err := b.IndexOf(id)
	if err != nil {
		return err
	}
	return b.Update(ctx, i, r)
}

// Delete removes the recipe at index i, shifting later recipes down, and
// returns the removed recipe. The editing slot follows its recipe: it is
// cleared if that recipe is deleted and shifted if an earlier one is.
func (b *Book) Delete(ctx context.Context, i int) (recipe.Recipe, error) {
	b.mu.Lock()
	if i < 0 || i >= len(b.recipes) {
		n := len(b.recipes)
		b.mu.Unlock()
		return recipe.Recipe{}, indexError(i, n)
	}

	removed := b.recipes[i].Clone()
	next := make([]recipe.Recipe, 0, len(b.recipes)-1)
	next = append(next, cloneAll(b.recipes[:i])...)
	next = append(next, cloneAll(b.recipes[i+1:])...)

	editing := b.editing
	switch {
	case editing == i:
		editing = NotEditing
	case editing > i:
		editing--
	}

	st, err := b.commitLocked(ctx, next, editing)
	b.mu.Unlock()
	if err != nil {
		return recipe.Recipe{}, err
	}

	b.notify(st)
	return removed, nil
}

// DeleteByID removes the recipe carrying id.
func (b *Book) DeleteByID(ctx context.Context, id string) (recipe.Recipe, error) {
	i, err := b.IndexOf(id)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return b.Delete(ctx, i)
}

// Replace swaps in a whole new collection, as an import does. Each record
// is validated; records without an ID are assigned one.
func (b *Book) Replace(ctx context.Context, recipes []recipe.Recipe) error {
	next := make([]recipe.Recipe, len(recipes))
	for i, r := range recipes {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recipe[%d]: %w", i, err)
		}
		next[i] = r.Normalize()
		if next[i].ID == "" {
			next[i].ID = b.ids.Generate()
		}
	}

	b.mu.Lock()
	st, err := b.commitLocked(ctx, next, NotEditing)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	b.notify(st)
	return nil
}

// BeginEdit selects the recipe at index i for editing. The next Submit
// overwrites it.
func (b *Book) BeginEdit(i int) error {
	b.mu.Lock()
	if i < 0 || i >= len(b.recipes) {
		n := len(b.recipes)
		b.mu.Unlock()
		return indexError(i, n)
	}
	b.editing = i
	st := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(st)
	return nil
}

// CancelEdit clears the editing slot.
func (b *Book) CancelEdit() {
	b.mu.Lock()
	b.editing = NotEditing
	st := b.snapshotLocked()
	b.mu.Unlock()

	b.notify(st)
}

// Editing returns the index selected for editing, if any.
func (b *Book) Editing() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editing, b.editing != NotEditing
}

// Submit handles a form submission: while editing it updates the selected
// recipe and clears the slot, otherwise it creates a new recipe. Returns the
// stored recipe.
func (b *Book) Submit(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error) {
	if err := r.Validate(); err != nil {
		return recipe.Recipe{}, err
	}

	var (
		stored recipe.Recipe
		st     State
		err    error
	)
	b.mu.Lock()
	if i := b.editing; i == NotEditing {
		stored, st, err = b.createLocked(ctx, r)
	} else if st, err = b.updateLocked(ctx, i, r, NotEditing); err == nil {
		stored = st.Recipes[i]
	}
	b.mu.Unlock()
	if err != nil {
		return recipe.Recipe{}, err
	}

	b.notify(st)
	return stored, nil
}

// Get returns a copy of the recipe at index i.
func (b *Book) Get(i int) (recipe.Recipe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.recipes) {
		return recipe.Recipe{}, indexError(i, len(b.recipes))
	}
	return b.recipes[i].Clone(), nil
}

// IndexOf returns the position of the recipe carrying id.
func (b *Book) IndexOf(id string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.recipes {
		if r.ID == id {
			return i, nil
		}
	}
	return 0, notFound(id)
}

// Resolve turns a user-supplied reference into an index. A non-negative
// integer is taken as a position; anything else is looked up as an ID.
func (b *Book) Resolve(ref string) (int, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		b.mu.Lock()
		n := len(b.recipes)
		b.mu.Unlock()
		if i < 0 || i >= n {
			return 0, indexError(i, n)
		}
		return i, nil
	}
	return b.IndexOf(ref)
}

// Len returns the number of recipes.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.recipes)
}

// Recipes returns a copy of the current sequence.
func (b *Book) Recipes() []recipe.Recipe {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneAll(b.recipes)
}

// State returns a snapshot for rendering.
func (b *Book) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// createLocked appends r under a fresh ID and returns a copy of the stored
// record.
func (b *Book) createLocked(ctx context.Context, r recipe.Recipe) (recipe.Recipe, State, error) {
	r = r.Normalize()
	r.ID = b.ids.Generate()

	next := append(cloneAll(b.recipes), r)
	st, err := b.commitLocked(ctx, next, b.editing)
	if err != nil {
		return recipe.Recipe{}, State{}, err
	}
	return r.Clone(), st, nil
}

func (b *Book) updateLocked(ctx context.Context, i int, r recipe.Recipe, editing int) (State, error) {
	if i < 0 || i >= len(b.recipes) {
		return State{}, indexError(i, len(b.recipes))
	}
	r = r.Normalize()
	r.ID = b.recipes[i].ID

	next := cloneAll(b.recipes)
	next[i] = r
	return b.commitLocked(ctx, next, editing)
}

// commitLocked persists next and, only if that succeeds, makes it current.
func (b *Book) commitLocked(ctx context.Context, next []recipe.Recipe, editing int) (State, error) {
	if err := b.persistLocked(ctx, next); err != nil {
		return State{}, err
	}
	b.recipes = next
	b.editing = editing
	return b.snapshotLocked(), nil
}

func (b *Book) persistLocked(ctx context.Context, recipes []recipe.Recipe) error {
	data, err := recipe.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("save recipes: %w", err)
	}
	if err := b.kv.Set(ctx, b.key, string(data)); err != nil {
		return fmt.Errorf("save recipes: %w", err)
	}
	return nil
}

func (b *Book) snapshotLocked() State {
	st := State{
		Recipes:      cloneAll(b.recipes),
		EditingIndex: b.editing,
	}
	if b.editing != NotEditing {
		st.Draft = b.recipes[b.editing].Clone()
	}
	return st
}

func (b *Book) notify(st State) {
	b.mu.Lock()
	renderers := append([]Renderer(nil), b.renderers...)
	b.mu.Unlock()

	for _, r := range renderers {
		r(st)
	}
}

func cloneAll(rs []recipe.Recipe) []recipe.Recipe {
	out := make([]recipe.Recipe, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}
