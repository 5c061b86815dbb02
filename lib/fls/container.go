// SPDX-License-Identifier: MIT
package fls

import "io"

// Container is the result of a full walk: the detected layout plus every
// image that was enumerated before the stream ended.
type Container struct {
	Variant Variant
	Images  []*Image
}

// Parse detects the container's layout and walks it to exhaustion. On a
// structural error mid-walk the images decoded so far are returned
// alongside the error, so a caller can still report the healthy prefix.
func Parse(data []byte) (*Container, error) {
	variant, err := DetectVariant(data)
	if err != nil {
		return nil, err
	}

	c := &Container{Variant: variant}
	w := NewWalker(data, variant)
	for {
		img, err := w.Next()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		c.Images = append(c.Images, img)
	}
}
