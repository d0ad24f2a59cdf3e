package recipe

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// SchemaError describes why a persisted value does not match the schema.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// cue.Context is not safe for concurrent use, so the compiled schema and
// its context are guarded together.
var schema struct {
	once sync.Once
	mu   sync.Mutex
	ctx  *cue.Context
	def  cue.Value
	err  error
}

func loadSchema() {
	schema.ctx = cuecontext.New()
	v := schema.ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		schema.err = fmt.Errorf("compile recipe schema: %w", err)
		return
	}
	schema.def = v.LookupPath(cue.ParsePath("#Collection"))
	if !schema.def.Exists() {
		schema.err = fmt.Errorf("compile recipe schema: #Collection not defined")
	}
}

// validateCollection checks raw JSON against #Collection.
func validateCollection(data []byte) error {
	schema.once.Do(loadSchema)
	if schema.err != nil {
		return schema.err
	}

	expr, err := cuejson.Extract("recipes.json", data)
	if err != nil {
		return formatCUEError(err)
	}

	schema.mu.Lock()
	defer schema.mu.Unlock()

	v := schema.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if err := schema.def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	format, args := first.Msg()
	return &SchemaError{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
}
