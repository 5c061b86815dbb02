// SPDX-License-Identifier: MIT

// Package manifest renders a parsed container as a TOML document, one
// table per image, so firmware contents can be diffed, archived, or fed
// to other tooling without re-parsing the binary.
package manifest

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/flstweak/fls-tools/lib/fls"
)

type Image struct {
	ID           string `toml:"id"`
	Kind         string `toml:"kind"`
	LoadAddr     uint32 `toml:"load_addr"`
	Size         uint32 `toml:"size"`
	Version      string `toml:"version,omitempty"`
	UpdateNo     uint32 `toml:"update_no,omitzero"`
	BodyChecksum uint32 `toml:"body_checksum"`

	OTAAddr     uint32 `toml:"ota_addr,omitzero"`
	OTALen      uint32 `toml:"ota_len,omitzero"`
	OTAChecksum uint32 `toml:"ota_checksum,omitzero"`

	HeaderAddr     uint32 `toml:"header_addr,omitzero"`
	NextHeaderAddr uint32 `toml:"next_header_addr,omitzero"`

	Gzip         bool  `toml:"gzip,omitzero"`
	Encrypted    bool  `toml:"encrypted,omitzero"`
	Signed       bool  `toml:"signed,omitzero"`
	CompressType uint8 `toml:"compress_type,omitzero"`

	HeaderValid   bool `toml:"header_valid"`
	SizeValid     bool `toml:"size_valid"`
	ChecksumValid bool `toml:"checksum_valid"`
}

type Manifest struct {
	Variant string  `toml:"variant"`
	Images  []Image `toml:"images"`
}

// FromContainer summarises every image of a parsed container.
func FromContainer(c *fls.Container) *Manifest {
	m := &Manifest{Variant: c.Variant.String()}

	for _, img := range c.Images {
		hdr := img.Header
		m.Images = append(m.Images, Image{
			ID:             img.ID.String(),
			Kind:           hdr.Attr.Kind().String(),
			LoadAddr:       hdr.LoadAddr,
			Size:           hdr.BodyLen,
			Version:        hdr.Version(),
			UpdateNo:       hdr.UpdateNo,
			BodyChecksum:   hdr.BodyChecksum,
			OTAAddr:        hdr.OTAAddr,
			OTALen:         hdr.OTALen,
			OTAChecksum:    hdr.OTAChecksum,
			HeaderAddr:     hdr.HeaderAddr,
			NextHeaderAddr: hdr.NextHeaderAddr,
			Gzip:           hdr.Attr.GzipEnabled(),
			Encrypted:      hdr.Attr.Encrypted(),
			Signed:         hdr.Attr.Signed(),
			CompressType:   hdr.Attr.CompressType(),
			HeaderValid:    img.HeaderValid,
			SizeValid:      img.SizeValid,
			ChecksumValid:  img.ChecksumValid,
		})
	}

	return m
}

// Encode writes the manifest as TOML.
func (m *Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}

// Decode reads a manifest back from TOML.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
