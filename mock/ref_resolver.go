package mock

import (
	"context"

	"github.com/pkg/errors"
)

// RefResolver provides a mock implementation of a sentinel.RefResolver backed
// by a fixed set of references. This makes it possible to introspect on
// inputs to the resolver and control the resolver's output.
type RefResolver struct {
	ResolveRefInput  *string
	ResolveRefOutput *string
	ResolveRefError  error

	// Values maps references to the secret material they resolve to.
	Values map[string]string
}

// ResolveRef saves the input reference and resolves it. The mock output can
// be customized. By default, it will look the reference up in the resolver's
// fixed value set.
func (r *RefResolver) ResolveRef(ctx context.Context, ref string) (string, error) {
	r.ResolveRefInput = &ref

	if r.ResolveRefOutput != nil || r.ResolveRefError != nil {
		if r.ResolveRefOutput != nil {
			return *r.ResolveRefOutput, r.ResolveRefError
		}
		return "", r.ResolveRefError
	}

	val, ok := r.Values[ref]
	if !ok {
		return "", errors.Errorf("unknown reference '%s'", ref)
	}

	return val, nil
}
