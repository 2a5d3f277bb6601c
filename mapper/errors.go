package mapper

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrUnresolvedType is matched by every *UnresolvedTypeError.
var ErrUnresolvedType = errors.New("unresolved type")

// UnresolvedTypeError reports a type name with no mapping while both
// passthrough and the default type are disabled.
type UnresolvedTypeError struct {
	Name string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("no mapping for type %q (passthrough_unknown is off and default_type is empty)", e.Name)
}

func (e *UnresolvedTypeError) Unwrap() error { return ErrUnresolvedType }
