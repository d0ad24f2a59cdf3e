// Package book implements the recipe collection: an explicitly owned,
// ordered sequence of recipes mirrored into a local key-value store.
//
// The whole collection lives under a single store key as a JSON array.
// Each mutation (Create, Update, Delete, Submit, Replace) rewrites that key
// with the full sequence before the change becomes visible, so the
// in-memory sequence and the persisted value are equal whenever a mutation
// returns. Renderers registered with Subscribe then receive a State
// snapshot and rebuild their view from it.
//
// Recipes can be addressed by position, as the edit form does, or by the
// stable ID assigned at creation.
package book
