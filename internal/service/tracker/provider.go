package tracker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StreamProvider reads newline-delimited JSON fixes from a device
// bridge (a GPS daemon or debugging pipe). A gap longer than the watch
// timeout surfaces as ErrFixTimeout without ending the watch; a closed
// stream is fatal.
type StreamProvider struct {
	r io.Reader
}

func NewStreamProvider(r io.Reader) *StreamProvider {
	return &StreamProvider{r: r}
}

func (p *StreamProvider) Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, <-chan error) {
	fixes := make(chan Fix)
	errs := make(chan error, 1)

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(p.r)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
		}
	}()

	go func() {
		defer close(fixes)
		defer close(errs)

		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultWatchOptions().Timeout
		}
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case <-timer.C:
				select {
				case errs <- ErrFixTimeout:
				default:
				}
				timer.Reset(timeout)

			case line, ok := <-lines:
				if !ok {
					err := ErrPositioningUnavailable
					select {
					case rerr := <-readErr:
						err = fmt.Errorf("%w: %v", ErrPositioningUnavailable, rerr)
					default:
					}
					select {
					case errs <- err:
					case <-ctx.Done():
					}
					return
				}

				var fix Fix
				if uerr := json.Unmarshal(line, &fix); uerr != nil {
					select {
					case errs <- fmt.Errorf("malformed fix: %w", uerr):
					default:
					}
					continue
				}

				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(timeout)

				select {
				case fixes <- fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return fixes, errs
}

// StaticProvider replays a fixed set of fixes at an interval. Useful
// for demos and for exercising the pipeline without a device.
type StaticProvider struct {
	Fixes    []Fix
	Interval time.Duration
}

func (p *StaticProvider) Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, <-chan error) {
	fixes := make(chan Fix)
	errs := make(chan error, 1)

	go func() {
		defer close(fixes)
		defer close(errs)

		if len(p.Fixes) == 0 {
			errs <- ErrPositioningUnavailable
			return
		}

		interval := p.Interval
		if interval <= 0 {
			interval = time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case fixes <- p.Fixes[i%len(p.Fixes)]:
				case <-ctx.Done():
					return
				}
				i++
			}
		}
	}()

	return fixes, errs
}
