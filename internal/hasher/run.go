package hasher

import "context"

// RunIfEnabled fingerprints paths using a Pool built from factory, but
// only when enabled is true. When enabled is false it returns immediately
// without ever calling factory — a regression test demands
// ("a test may inject a factory and assert it is never called").
func RunIfEnabled(ctx context.Context, enabled bool, workers int, factory Factory, paths []string) (map[string]string, error) {
	if !enabled {
		return map[string]string{}, nil
	}
	pool := factory(workers)
	return pool.Fingerprint(ctx, paths)
}
