// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"io"
)

// ctxReader stops a long parse once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
