// SPDX-License-Identifier: MIT
package fls

import "github.com/pkg/errors"

// Structural errors. Any of these aborts the remainder of a container
// walk; integrity failures (bad checksum, short body) do not, and are
// reported on the Image record instead.
var (
	// ErrUnknownVariant means the container prefix matched neither
	// layout's trial checksum nor was long enough to be W80x.
	ErrUnknownVariant = errors.New("unknown firmware type or corrupted header")

	// ErrBadMagic means a header did not start with the magic word.
	ErrBadMagic = errors.New("invalid header, incorrect magic word")

	// ErrHeaderSize means fewer header bytes were available than the
	// variant's fixed header size.
	ErrHeaderSize = errors.New("invalid header, incorrect size")
)
