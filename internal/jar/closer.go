package jar

import (
	"errors"
	"io"
)

// closer collects handles opened during a write so all of them are released
// exactly once when the write exits, on any path. Closing is idempotent.
type closer struct {
	closers []io.Closer
	closed  bool
}

func (c *closer) register(x io.Closer) {
	c.closers = append(c.closers, x)
}

// Close releases registered handles in reverse acquisition order and joins
// any errors. Subsequent calls are no-ops.
func (c *closer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
