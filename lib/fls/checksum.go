// SPDX-License-Identifier: MIT
package fls

import "hash/crc32"

// Checksum computes the CRC-32/JAMCRC of data: a standard CRC-32 with the
// final result bit-complemented. Both the header checksum and the image
// body checksum in a .fls container use this form.
func Checksum(data []byte) uint32 {
	return ^crc32.ChecksumIEEE(data)
}
