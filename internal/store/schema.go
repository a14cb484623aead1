package store

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce       sync.Once
	schemaPrincipals cue.Value
	schemaRecords    cue.Value
	schemaCtx        *cue.Context
	schemaErr        error
)

// compileSchema builds the embedded CUE schema once per process.
func compileSchema() error {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile schema.cue: %w", err)
			return
		}
		schemaPrincipals = v.LookupPath(cue.ParsePath("#Principals"))
		schemaRecords = v.LookupPath(cue.ParsePath("#Records"))
	})
	return schemaErr
}

// validatePrincipals checks raw principals JSON against the schema.
func validatePrincipals(data []byte) error {
	return validateAgainst(data, "principals.json", &schemaPrincipals)
}

// validateRecords checks raw records JSON against the schema.
func validateRecords(data []byte) error {
	return validateAgainst(data, "records.json", &schemaRecords)
}

func validateAgainst(data []byte, name string, def *cue.Value) error {
	if err := compileSchema(); err != nil {
		return err
	}
	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	v := schemaCtx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return fmt.Errorf("schema check %s: %w", name, err)
	}
	return nil
}
