package feed

import (
	"bufio"
	"context"
	"io"
	"strings"
)

const maxLine = 16 << 20

// Stream sends every non-empty line of r to elementID as one plot. A line that
// fails is logged and skipped. Stream returns when r is exhausted or ctx is done.
// When ctx ends first, r is closed if it is an io.Closer so the pending read
// returns; otherwise the reading goroutine stays blocked until r yields.
func Stream(ctx context.Context, elementID string, r io.Reader, sink Sink, opts ...Option) error {
	o := newOptions(opts)

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), maxLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- sc.Err()
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			if c, ok := r.(io.Closer); ok {
				c.Close()
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			n++
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := sink(ctx, elementID, line); err != nil {
				if ctx.Err() != nil {
					continue
				}
				o.log.Printf("line %d: %v", n, err)
			}
		}
	}
}
