// SPDX-License-Identifier: MIT
package fls

import "fmt"

// ImageID numbers an image within a container. Top-level images count
// 0, 1, 2... Images found inside a W60x wrapper container are children
// of image 0 and count 0.0, 0.1, 0.2...
type ImageID struct {
	Index int
	// Child is -1 for a top-level image.
	Child int
}

func (id ImageID) Wrapped() bool { return id.Child >= 0 }

func (id ImageID) String() string {
	if id.Wrapped() {
		return fmt.Sprintf("%d.%d", id.Index, id.Child)
	}
	return fmt.Sprintf("%d", id.Index)
}

// Image is one decoded image: header, body, and the advisory integrity
// results. Integrity failures are in-band flags, never walk errors; the
// caller decides whether to keep going.
type Image struct {
	ID     ImageID
	Header *Header
	Body   []byte

	// BodyChecksum is the JAMCRC recomputed over Body as read.
	BodyChecksum uint32

	// HeaderValid: the header's trailing checksum matched.
	HeaderValid bool
	// SizeValid: the body read matched the declared length.
	SizeValid bool
	// ChecksumValid: BodyChecksum matched the declared body checksum.
	ChecksumValid bool
}

// Valid reports whether every integrity check passed. Patching is only
// permitted on fully valid images.
func (img *Image) Valid() bool {
	return img.HeaderValid && img.SizeValid && img.ChecksumValid
}
