// SPDX-License-Identifier: MIT
package fls

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHeader builds a sealed header for body under the given variant,
// optionally mutated (and re-sealed) by mut.
func testHeader(v Variant, body []byte, mut func(*Header)) *Header {
	h := &Header{
		Variant:      v,
		Magic:        MagicWord,
		Attr:         0x10001, // user image, gzip
		LoadAddr:     0x08010000,
		BodyLen:      uint32(len(body)),
		BodyChecksum: Checksum(body),
		OTAAddr:      0x08010100,
		UpdateNo:     0x10101,
	}
	copy(h.RawVersion[:], "G03.00.00")

	if v == VariantA {
		h.OTALen = 0x1000
		h.OTAChecksum = 0x12345678
	} else {
		h.HeaderAddr = 0x08002000
		h.NextHeaderAddr = 0xFFFFFFFF
	}

	if mut != nil {
		mut(h)
	}
	h.Seal()
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, v := range []Variant{VariantA, VariantB} {
		t.Run(v.String(), func(t *testing.T) {
			h := testHeader(v, []byte("some body"), func(h *Header) {
				// Exercise fields with no accessor too.
				h.Attr |= 0x7FC00000 // reserved high bits
				if v == VariantB {
					h.Reserved0 = 0xDEADBEEF
					h.Reserved1 = 0x0BADF00D
				}
			})

			raw := h.Encode()
			require.Len(t, raw, v.HeaderSize())

			got, err := DecodeHeader(raw, v)
			require.NoError(t, err)
			assert.Equal(t, h, got)
		})
	}
}

func TestDecodeHeaderWrongSize(t *testing.T) {
	_, err := DecodeHeader(make([]byte, headerSizeA), VariantB)
	assert.True(t, errors.Is(err, ErrHeaderSize))

	_, err = DecodeHeader(make([]byte, 10), VariantA)
	assert.True(t, errors.Is(err, ErrHeaderSize))
}

func TestValidateHeader(t *testing.T) {
	for _, v := range []Variant{VariantA, VariantB} {
		t.Run(v.String(), func(t *testing.T) {
			raw := testHeader(v, []byte("body"), nil).Encode()
			require.True(t, ValidateHeader(raw))

			// Mutating any byte covered by the checksum must flip the
			// result.
			for i := 0; i < len(raw)-4; i++ {
				raw[i] ^= 0x5A
				assert.False(t, ValidateHeader(raw), "byte %d", i)
				raw[i] ^= 0x5A
			}
			assert.True(t, ValidateHeader(raw))
		})
	}

	assert.False(t, ValidateHeader(make([]byte, 32)))
}

func TestSealAfterMutation(t *testing.T) {
	h := testHeader(VariantB, []byte("body"), nil)
	h.BodyChecksum = 0xCAFEF00D
	raw := h.Seal()

	assert.True(t, ValidateHeader(raw))
	got, err := DecodeHeader(raw, VariantB)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEF00D), got.BodyChecksum)
	assert.Equal(t, h.HeaderChecksum, got.HeaderChecksum)
}

func TestAttributes(t *testing.T) {
	// kind 0xE, encrypted, key #5, signed, gzip, block erase, always
	// erase, compress type 2
	attr := Attributes(0xE | 1<<4 | 5<<5 | 1<<8 | 1<<16 | 1<<17 | 1<<18 | 2<<19)

	assert.Equal(t, KindFactoryTest, attr.Kind())
	assert.True(t, attr.Encrypted())
	assert.Equal(t, uint8(5), attr.KeySelector())
	assert.True(t, attr.Signed())
	assert.True(t, attr.GzipEnabled())
	assert.True(t, attr.BlockErase())
	assert.True(t, attr.AlwaysErase())
	assert.Equal(t, uint8(2), attr.CompressType())

	zero := Attributes(0)
	assert.Equal(t, KindBootloader, zero.Kind())
	assert.False(t, zero.GzipEnabled())
}

func TestImageKindString(t *testing.T) {
	assert.Equal(t, "Bootloader (0x0)", KindBootloader.String())
	assert.Equal(t, "User image (0x1)", KindUserImage.String())
	assert.Equal(t, "Partition table (0x2)", KindPartitionTable.String())
	assert.Equal(t, "Factory test program (0xE)", KindFactoryTest.String())
	// Unknown kinds keep the raw value visible.
	assert.Equal(t, "Unknown (0x7)", ImageKind(0x7).String())
}

func TestVersionString(t *testing.T) {
	h := testHeader(VariantA, nil, nil)
	assert.Equal(t, "G03.00.00", h.Version())
}
