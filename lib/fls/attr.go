// SPDX-License-Identifier: MIT
package fls

import "fmt"

// ImageKind is the 4-bit image type field packed into the header
// attribute word.
type ImageKind uint8

const (
	KindBootloader     ImageKind = 0x0
	KindUserImage      ImageKind = 0x1
	KindPartitionTable ImageKind = 0x2
	KindFactoryTest    ImageKind = 0xE
)

func (k ImageKind) String() string {
	switch k {
	case KindBootloader:
		return fmt.Sprintf("Bootloader (0x%X)", uint8(k))
	case KindUserImage:
		return fmt.Sprintf("User image (0x%X)", uint8(k))
	case KindPartitionTable:
		return fmt.Sprintf("Partition table (0x%X)", uint8(k))
	case KindFactoryTest:
		return fmt.Sprintf("Factory test program (0x%X)", uint8(k))
	}
	return fmt.Sprintf("Unknown (0x%X)", uint8(k))
}

// Attributes is the packed 32-bit attribute word at offset 4 of every
// header. Reserved bits are preserved across encode/decode but have no
// accessor.
//
// Layout:
//
//	bits 0-3   image kind
//	bit  4     code encryption (W80x)
//	bits 5-7   private key selector (W80x)
//	bit  8     signature present (W80x)
//	bits 9-15  reserved
//	bit  16    gzip enabled
//	bit  17    block erase (W80x)
//	bit  18    always erase (W80x)
//	bits 19-20 compression type
//	bits 21-31 reserved
type Attributes uint32

func (a Attributes) Kind() ImageKind { return ImageKind(a & 0xF) }

func (a Attributes) Encrypted() bool { return a>>4&0x1 != 0 }

func (a Attributes) KeySelector() uint8 { return uint8(a >> 5 & 0x7) }

func (a Attributes) Signed() bool { return a>>8&0x1 != 0 }

func (a Attributes) GzipEnabled() bool { return a>>16&0x1 != 0 }

func (a Attributes) BlockErase() bool { return a>>17&0x1 != 0 }

func (a Attributes) AlwaysErase() bool { return a>>18&0x1 != 0 }

func (a Attributes) CompressType() uint8 { return uint8(a >> 19 & 0x3) }
