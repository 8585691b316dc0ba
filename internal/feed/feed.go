// Package feed delivers serialized plots from files and streams to a chart
// element.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
)

// Sink receives one serialized plot for an element. updater.Updater.Update
// satisfies it.
type Sink func(ctx context.Context, elementID, payload string) error

var errEmptyFile = errors.New("file is empty")

// readDelay is the pause between read attempts while a writer replaces a file.
var readDelay = 100 * time.Millisecond

type options struct {
	log *log.Logger
}

// Option configures Watcher and Stream.
type Option func(*options)

// WithLogger sends feed diagnostics to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{log: log.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// ReadFile reads a plot file. A file that is missing or empty is read again a
// few times, since editors and exporters often truncate or rename before writing.
func ReadFile(ctx context.Context, path string) (string, error) {
	var b []byte
	err := retry.Do(func() error {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return retry.Unrecoverable(err)
			}
			return err
		}
		if len(b) == 0 {
			return fmt.Errorf("%s: %w", path, errEmptyFile)
		}
		return nil
	},
		retry.Context(ctx),
		retry.DelayType(retry.FixedDelay),
		retry.Delay(readDelay),
		retry.Attempts(4),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Files reads every path and then sends each plot to elementID in the order
// given. Reads run concurrently; a failed read sends nothing.
func Files(ctx context.Context, elementID string, paths []string, sink Sink) error {
	payloads := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			s, err := ReadFile(gctx, p)
			if err != nil {
				return err
			}
			payloads[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, s := range payloads {
		if err := sink(ctx, elementID, s); err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
	}
	return nil
}
