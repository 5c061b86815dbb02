// SPDX-License-Identifier: MIT
package fls

// cursor is the walker's read position over an in-memory container. The
// padding heuristics need lookahead-and-commit: peek some bytes, decide,
// then either keep the new position or rewind.
type cursor struct {
	data []byte
	pos  int
}

// read returns up to n bytes and advances past them. Short reads at the
// end of the stream return whatever remains, possibly nothing.
func (c *cursor) read(n int) []byte {
	if c.pos >= len(c.data) {
		return nil
	}
	end := c.pos + n
	if end > len(c.data) {
		end = len(c.data)
	}
	b := c.data[c.pos:end]
	c.pos = end
	return b
}

// peek returns up to n bytes without advancing.
func (c *cursor) peek(n int) []byte {
	save := c.pos
	b := c.read(n)
	c.pos = save
	return b
}

func (c *cursor) rewind(n int) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}

func (c *cursor) seek(pos int) {
	c.pos = pos
}
