// SPDX-License-Identifier: MIT
package fls

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/usedbytes/log"
)

const (
	// fillerChecksum is the JAMCRC of a full header's worth of 0xFF
	// filler, observed when a W60x container pads between images. Kept
	// as the vendor tooling's literal; the padding-follows meaning is
	// heuristic, not documented.
	fillerChecksum = 0x27445404

	// paddingBlockLen / paddingBlockChecksum describe the fixed 200-byte
	// padding block a W60x header may be followed by.
	paddingBlockLen      = 200
	paddingBlockChecksum = 0x947D8E12

	// wrapperOffset is where the wrapped sub-image sequence starts in a
	// W60x wrapper container: right after the outer 56-byte header.
	wrapperOffset = headerSizeA
)

var fillerWord = []byte{0xFF, 0xFF, 0xFF, 0xFF}

// Walker enumerates the images of a container sequentially. It owns the
// read cursor for the duration of one walk; calling Next after a
// structural error keeps returning that error.
type Walker struct {
	cur     cursor
	variant Variant

	index int
	child int // -1 until a wrapper container is entered
	fatal error
}

// NewWalker walks the container held in data, which must use the given
// layout (see DetectVariant).
func NewWalker(data []byte, variant Variant) *Walker {
	return &Walker{
		cur:     cursor{data: data},
		variant: variant,
		child:   -1,
	}
}

// Next produces the next image, or io.EOF once the stream is cleanly
// exhausted. Wrong magic or a short header is structural: the error is
// returned and the remainder of the walk is abandoned. Checksum and
// size failures are not errors; they are flagged on the returned Image.
func (w *Walker) Next() (*Image, error) {
	if w.fatal != nil {
		return nil, w.fatal
	}

	img, err := w.next()
	if err != nil && err != io.EOF {
		w.fatal = err
	}
	return img, err
}

func (w *Walker) next() (*Image, error) {
	hdrSize := w.variant.HeaderSize()
	raw := w.cur.read(hdrSize)

	// W60x containers may pad between images with runs of 0xFF. A
	// header slot checksumming to the filler sentinel means the real
	// header starts after the run: discard whole filler words, rewind
	// on the first word that isn't one, and read again.
	if w.variant == VariantA && len(raw) == hdrSize && Checksum(raw) == fillerChecksum {
		for {
			word := w.cur.read(4)
			if len(word) < 4 {
				break
			}
			if !bytes.Equal(word, fillerWord) {
				w.cur.rewind(4)
				break
			}
		}
		raw = w.cur.read(hdrSize)
	}

	if len(raw) == 0 {
		// A W60x container that ends after a single image may be a
		// wrapper: the outer body holds a further image sequence
		// starting right after the outer header. Those children are
		// numbered 0.0, 0.1, ... to keep them apart from top-level
		// images.
		if w.variant == VariantA && w.index == 1 && w.child < 0 {
			log.Verboseln("end after one image, retrying as wrapper container")
			w.cur.seek(wrapperOffset)
			raw = w.cur.read(hdrSize)
			if len(raw) == 0 {
				return nil, io.EOF
			}
			w.index, w.child = 0, 0
		} else {
			return nil, io.EOF
		}
	}

	if len(raw) >= 4 {
		if magic := binary.LittleEndian.Uint32(raw); magic != MagicWord {
			return nil, errors.Wrapf(ErrBadMagic, "expected 0x%08X, actual 0x%08X",
				uint32(MagicWord), magic)
		}
	}
	if len(raw) != hdrSize {
		return nil, errors.Wrapf(ErrHeaderSize, "expected %d bytes, actual %d",
			hdrSize, len(raw))
	}

	hdr, err := DecodeHeader(raw, w.variant)
	if err != nil {
		return nil, err
	}
	hdrValid := ValidateHeader(raw)
	if !hdrValid {
		log.Verbosef("image %s: header checksum mismatch (declared 0x%08X)\n",
			w.id(), hdr.HeaderChecksum)
	}

	// A W60x header may be followed by a fixed-size padding block
	// before the body. Peek it; consume only if it checksums to the
	// known padding value.
	if w.variant == VariantA {
		pad := w.cur.peek(paddingBlockLen)
		if len(pad) == paddingBlockLen && Checksum(pad) == paddingBlockChecksum {
			w.cur.read(paddingBlockLen)
			log.Verbosef("image %s: skipped %d-byte padding block\n", w.id(), paddingBlockLen)
		}
	}

	body := w.cur.read(int(hdr.BodyLen))

	img := &Image{
		ID:           w.id(),
		Header:       hdr,
		Body:         body,
		BodyChecksum: Checksum(body),
		HeaderValid:  hdrValid,
		SizeValid:    len(body) == int(hdr.BodyLen),
	}
	img.ChecksumValid = img.BodyChecksum == hdr.BodyChecksum

	if w.child >= 0 {
		w.child++
	} else {
		w.index++
	}

	return img, nil
}

func (w *Walker) id() ImageID {
	if w.child >= 0 {
		return ImageID{Index: w.index, Child: w.child}
	}
	return ImageID{Index: w.index, Child: -1}
}
