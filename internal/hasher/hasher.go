// Package hasher computes a short, non-cryptographic content fingerprint
// used for integrity checks and anchor-collision breaking. It
// is the only concurrent stage of the pipeline: a fixed-size worker pool
// consumes a bounded queue of paths, giving implicit backpressure.
// When fingerprinting is disabled the pool must never be
// instantiated — callers achieve that by never invoking Factory, not by
// constructing and then idling a Pool.
package hasher

import (
	"context"
	"crypto/sha1" //nolint:gosec // integrity fingerprint, not a security boundary
	"encoding/hex"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// chunkSize bounds a single read during fingerprinting.
	chunkSize = 64 * 1024
	// errorSentinel is recorded for a file whose fingerprint computation
	// failed; a single bad file must never fail the whole run.
	errorSentinel = "ERROR"
)

// Pool fingerprints a batch of absolute file paths concurrently, returning
// a path -> fingerprint map. A failed individual file is represented by
// the "ERROR" sentinel value in the map, never by a returned error.
type Pool interface {
	Fingerprint(ctx context.Context, paths []string) (map[string]string, error)
}

// Factory constructs a Pool with the given worker count. Tests that assert
// "calculate_fingerprint=false implies no pool" inject a Factory that
// records whether it was ever called.
type Factory func(workers int) Pool

// DefaultFactory is the production Factory, bounding concurrency with
// errgroup.SetLimit (which blocks the dispatch loop while every worker is
// busy) and collecting results over a buffered channel.
func DefaultFactory(workers int) Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &pool{workers: workers}
}

type pool struct {
	workers int
}

func (p *pool) Fingerprint(ctx context.Context, paths []string) (map[string]string, error) {
	results := make(map[string]string, len(paths))
	resultsCh := make(chan [2]string, p.workers) // bounded queue: implicit backpressure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	done := make(chan struct{})
	go func() {
		for r := range resultsCh {
			results[r[0]] = r[1]
		}
		close(done)
	}()

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := FingerprintFile(path)
			if err != nil {
				fp = errorSentinel
			}
			select {
			case resultsCh <- [2]string{path, fp}:
			case <-gctx.Done():
				return gctx.Err()
			}
			return nil
		})
	}

	err := g.Wait()
	close(resultsCh)
	<-done
	return results, err
}

// FingerprintFile computes a short hex digest over path's bytes, read in
// bounded chunks. This is an integrity fingerprint, not a security hash.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec
	buf := make([]byte, chunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", readErr
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}
