// SPDX-License-Identifier: MIT
package fls

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// DetectVariant decides which header layout a container uses by trial
// checksum: the JAMCRC of the first 52 bytes is compared against the
// 32-bit value at offset 52. A match means the W60x layout, whose header
// checksum happens to sit there. No match with at least a full W80x
// header available means the W80x layout. The format carries no explicit
// version marker, so this heuristic is the only discriminator.
//
// prefix should be the first 64 bytes of the container (shorter input is
// accepted but may only resolve to an error).
func DetectVariant(prefix []byte) (Variant, error) {
	if len(prefix) < headerSizeA {
		return 0, errors.Wrapf(ErrHeaderSize, "container shorter than %d bytes", headerSizeA)
	}

	declared := binary.LittleEndian.Uint32(prefix[52:56])
	if Checksum(prefix[:52]) == declared {
		return VariantA, nil
	}
	if len(prefix) >= headerSizeB {
		return VariantB, nil
	}
	return 0, ErrUnknownVariant
}
