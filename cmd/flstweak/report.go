// SPDX-License-Identifier: MIT
package main

import (
	"github.com/usedbytes/log"

	"github.com/flstweak/fls-tools/lib/fls"
	"github.com/flstweak/fls-tools/lib/patch"
)

func printAttributes(variant fls.Variant, attr fls.Attributes) {
	log.Println("  Image attributes:")
	log.Println("    Type:", attr.Kind())
	if variant == fls.VariantB {
		log.Println("    Encryption:", attr.Encrypted())
		log.Println("    Encryption private key #:", attr.KeySelector())
		log.Println("    Signature:", attr.Signed())
	}
	log.Println("    GZIP compression:", attr.GzipEnabled())
	if variant == fls.VariantB {
		log.Println("    Block erase:", attr.BlockErase())
		log.Println("    Always erase:", attr.AlwaysErase())
	}
	log.Println("    Compression type:", attr.CompressType())
}

// printImage reports one image the way the vendor tooling does. res is
// nil unless the image went through replacement.
func printImage(img *fls.Image, res *patch.Result) {
	hdr := img.Header

	log.Printf("\nImage %s:\n", img.ID)
	printAttributes(hdr.Variant, hdr.Attr)
	log.Printf("  Image address: 0x%08X\n", hdr.LoadAddr)

	if !img.SizeValid {
		log.Printf("  Image size: expected %d, actual %d [INVALID]\n", hdr.BodyLen, len(img.Body))
	} else {
		log.Printf("  Image size: %d\n", hdr.BodyLen)
	}

	if hdr.Variant == fls.VariantA {
		log.Printf("  OTA update address: 0x%08X\n", hdr.OTAAddr)
		log.Printf("  OTA update size: %d\n", hdr.OTALen)
		log.Printf("  OTA update checksum: 0x%08X\n", hdr.OTAChecksum)
		log.Printf("  OTA update version: 0x%08X\n", hdr.UpdateNo)
		log.Printf("  Version: %s\n", hdr.Version())
	} else {
		log.Printf("  Header address: 0x%08X\n", hdr.HeaderAddr)
		log.Printf("  OTA update address: 0x%08X\n", hdr.OTAAddr)
		log.Printf("  OTA update version: 0x%08X\n", hdr.UpdateNo)
		log.Printf("  Version: %s\n", hdr.Version())
		log.Printf("  Next image header address: 0x%08X\n", hdr.NextHeaderAddr)
	}

	if res != nil && res.Matched {
		log.Printf("  Image checksum: original 0x%08X, new 0x%08X (verified)\n",
			hdr.BodyChecksum, res.Header.BodyChecksum)
		log.Printf("  Header checksum: original 0x%08X, new 0x%08X (verified)\n",
			hdr.HeaderChecksum, res.Header.HeaderChecksum)
		return
	}

	if !img.ChecksumValid {
		log.Printf("  Image checksum: expected 0x%08X, actual 0x%08X [INVALID]\n",
			hdr.BodyChecksum, img.BodyChecksum)
	} else {
		log.Printf("  Image checksum: 0x%08X (verified)\n", hdr.BodyChecksum)
	}
	if !img.HeaderValid {
		log.Printf("  Header checksum: 0x%08X [INVALID]\n", hdr.HeaderChecksum)
	} else {
		log.Printf("  Header checksum: 0x%08X (verified)\n", hdr.HeaderChecksum)
	}
}

func printPairs(pairs []patch.PairResult) {
	for _, p := range pairs {
		switch {
		case p.Skipped:
			log.Printf("  [Replace] Skipped (size mismatch): %s\n", p.Name)
		case p.Matched:
			log.Printf("  [Replace] Matched and replaced: %s\n", p.Name)
		default:
			log.Printf("  [Replace] Not matched: %s\n", p.Name)
		}
	}
}
