// SPDX-License-Identifier: MIT
package fls

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// MagicWord sits at offset 0 of every image header, in both layouts.
const MagicWord = 0xA0FFFF9F

// Variant selects one of the two incompatible header layouts. There is
// no version marker in the format itself; DetectVariant picks one via a
// trial checksum.
type Variant int

const (
	// VariantA is the W60x-series layout, 56-byte header.
	VariantA Variant = iota
	// VariantB is the W80x-series layout, 64-byte header.
	VariantB
)

const (
	headerSizeA = 56
	headerSizeB = 64
)

func (v Variant) String() string {
	switch v {
	case VariantA:
		return "W60x"
	case VariantB:
		return "W80x"
	}
	return "???"
}

// HeaderSize returns the fixed encoded size of a header in this layout.
func (v Variant) HeaderSize() int {
	if v == VariantB {
		return headerSizeB
	}
	return headerSizeA
}

// Header is one image header, tagged with the layout it was decoded
// from. Fields present in only one layout are zero in the other.
type Header struct {
	Variant Variant

	Magic    uint32
	Attr     Attributes
	LoadAddr uint32
	BodyLen  uint32

	// BodyChecksum is the declared JAMCRC of the image body ("original
	// checksum" in vendor documentation).
	BodyChecksum uint32

	OTAAddr     uint32
	OTALen      uint32 // VariantA only
	OTAChecksum uint32 // VariantA only

	HeaderAddr     uint32 // VariantB only
	NextHeaderAddr uint32 // VariantB only
	Reserved0      uint32 // VariantB only
	Reserved1      uint32 // VariantB only

	UpdateNo   uint32
	RawVersion [16]byte

	// HeaderChecksum is the declared JAMCRC of all preceding header
	// bytes (the encoded header minus its trailing 4 bytes).
	HeaderChecksum uint32
}

// Version returns the ASCII version string with trailing NULs stripped.
// RawVersion keeps the stored bytes so encode/decode round-trips exactly.
func (h *Header) Version() string {
	return strings.TrimRight(string(h.RawVersion[:]), "\x00")
}

// DecodeHeader parses raw into a Header. raw must be exactly the
// variant's header size.
func DecodeHeader(raw []byte, variant Variant) (*Header, error) {
	if len(raw) != variant.HeaderSize() {
		return nil, errors.Wrapf(ErrHeaderSize, "expected %d bytes, actual %d",
			variant.HeaderSize(), len(raw))
	}

	h := &Header{
		Variant:  variant,
		Magic:    binary.LittleEndian.Uint32(raw[0:]),
		Attr:     Attributes(binary.LittleEndian.Uint32(raw[4:])),
		LoadAddr: binary.LittleEndian.Uint32(raw[8:]),
		BodyLen:  binary.LittleEndian.Uint32(raw[12:]),
	}

	if variant == VariantA {
		h.BodyChecksum = binary.LittleEndian.Uint32(raw[16:])
		h.OTAAddr = binary.LittleEndian.Uint32(raw[20:])
		h.OTALen = binary.LittleEndian.Uint32(raw[24:])
		h.OTAChecksum = binary.LittleEndian.Uint32(raw[28:])
		h.UpdateNo = binary.LittleEndian.Uint32(raw[32:])
		copy(h.RawVersion[:], raw[36:52])
		h.HeaderChecksum = binary.LittleEndian.Uint32(raw[52:])
	} else {
		h.HeaderAddr = binary.LittleEndian.Uint32(raw[16:])
		h.OTAAddr = binary.LittleEndian.Uint32(raw[20:])
		h.BodyChecksum = binary.LittleEndian.Uint32(raw[24:])
		h.UpdateNo = binary.LittleEndian.Uint32(raw[28:])
		copy(h.RawVersion[:], raw[32:48])
		h.Reserved0 = binary.LittleEndian.Uint32(raw[48:])
		h.Reserved1 = binary.LittleEndian.Uint32(raw[52:])
		h.NextHeaderAddr = binary.LittleEndian.Uint32(raw[56:])
		h.HeaderChecksum = binary.LittleEndian.Uint32(raw[60:])
	}

	return h, nil
}

// Encode serializes the header back to its fixed layout. Exact inverse
// of DecodeHeader for every field, including raw attribute and reserved
// bits.
func (h *Header) Encode() []byte {
	raw := make([]byte, h.Variant.HeaderSize())

	binary.LittleEndian.PutUint32(raw[0:], h.Magic)
	binary.LittleEndian.PutUint32(raw[4:], uint32(h.Attr))
	binary.LittleEndian.PutUint32(raw[8:], h.LoadAddr)
	binary.LittleEndian.PutUint32(raw[12:], h.BodyLen)

	if h.Variant == VariantA {
		binary.LittleEndian.PutUint32(raw[16:], h.BodyChecksum)
		binary.LittleEndian.PutUint32(raw[20:], h.OTAAddr)
		binary.LittleEndian.PutUint32(raw[24:], h.OTALen)
		binary.LittleEndian.PutUint32(raw[28:], h.OTAChecksum)
		binary.LittleEndian.PutUint32(raw[32:], h.UpdateNo)
		copy(raw[36:52], h.RawVersion[:])
		binary.LittleEndian.PutUint32(raw[52:], h.HeaderChecksum)
	} else {
		binary.LittleEndian.PutUint32(raw[16:], h.HeaderAddr)
		binary.LittleEndian.PutUint32(raw[20:], h.OTAAddr)
		binary.LittleEndian.PutUint32(raw[24:], h.BodyChecksum)
		binary.LittleEndian.PutUint32(raw[28:], h.UpdateNo)
		copy(raw[32:48], h.RawVersion[:])
		binary.LittleEndian.PutUint32(raw[48:], h.Reserved0)
		binary.LittleEndian.PutUint32(raw[52:], h.Reserved1)
		binary.LittleEndian.PutUint32(raw[56:], h.NextHeaderAddr)
		binary.LittleEndian.PutUint32(raw[60:], h.HeaderChecksum)
	}

	return raw
}

// Seal recomputes HeaderChecksum over the encoded header and returns the
// sealed encoding. Used after mutating any header field.
func (h *Header) Seal() []byte {
	raw := h.Encode()
	h.HeaderChecksum = Checksum(raw[:len(raw)-4])
	binary.LittleEndian.PutUint32(raw[len(raw)-4:], h.HeaderChecksum)
	return raw
}

// ValidateHeader reports whether the trailing checksum field of an
// encoded header matches the JAMCRC of the bytes preceding it. raw must
// be a full encoded header of either size.
func ValidateHeader(raw []byte) bool {
	if len(raw) != headerSizeA && len(raw) != headerSizeB {
		return false
	}
	declared := binary.LittleEndian.Uint32(raw[len(raw)-4:])
	return Checksum(raw[:len(raw)-4]) == declared
}

func (h *Header) String() string {
	return fmt.Sprintf("%s %s @0x%08X len %d ver %q",
		h.Variant, h.Attr.Kind(), h.LoadAddr, h.BodyLen, h.Version())
}
