package contracts

import (
	"fmt"
	"strings"
)

// SchemaError reports an input table lacking required columns.
// Fatal for the whole run: a partial combination would silently corrupt
// the output schema, so no per-target recovery is attempted.
type SchemaError struct {
	Target  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("assay table %q missing required columns: %s",
		e.Target, strings.Join(e.Missing, ", "))
}
