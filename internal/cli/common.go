package cli

import (
	"context"

	"github.com/diseaz-joom/dsaflow/internal/runtime"
)

// getContext loads the runtime context and applies the global quiet flag.
func getContext(ctx context.Context, quiet bool) (*runtime.Context, error) {
	rt, err := runtime.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	rt.Splog.SetQuiet(quiet)
	return rt, nil
}
