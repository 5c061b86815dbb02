// SPDX-License-Identifier: MIT
package patch

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/usedbytes/log"

	"github.com/flstweak/fls-tools/lib/fls"
)

var (
	// ErrSpecSize means a spec's reference and modified buffers differ
	// in length. Replacement is strictly length-preserving.
	ErrSpecSize = errors.New("reference and modification data must be the same size")

	// ErrImageInvalid means the target image failed an integrity check;
	// patching an already-corrupt image is refused.
	ErrImageInvalid = errors.New("image failed validation, refusing to patch")
)

// Spec is one replacement: find Reference in the image body, substitute
// Modified. The two must be the same length.
type Spec struct {
	// Name identifies the spec in reports, conventionally the basename
	// of the reference file it was loaded from.
	Name      string
	Reference []byte
	Modified  []byte
}

// Result is the outcome of patching one image. Header and Body are
// consistent with each other whether or not anything matched: on a
// miss the body is byte-identical to the input and the header is
// untouched.
type Result struct {
	Header  *fls.Header
	Body    []byte
	Matched bool
}

// PairResult reports one spec's outcome within a batch.
type PairResult struct {
	Name    string
	Matched bool
	// Skipped: the spec was mis-sized and never searched.
	Skipped bool
}

// Patch applies a single replacement to a fully-valid image. A missing
// reference pattern is a normal outcome: Matched is false and the body
// is returned unchanged. On a match both checksums are recomputed (body
// first, then the header over its updated bytes), so the result can be
// written straight back into a container.
func Patch(img *fls.Image, spec Spec) (*Result, error) {
	if len(spec.Reference) != len(spec.Modified) {
		return nil, errors.Wrapf(ErrSpecSize, "%q: %d != %d",
			spec.Name, len(spec.Reference), len(spec.Modified))
	}
	if !img.Valid() {
		return nil, errors.Wrapf(ErrImageInvalid, "image %s", img.ID)
	}

	body := fls.Extract(img.Body)
	hdr := *img.Header

	idx := bytes.Index(body, spec.Reference)
	if idx < 0 {
		return &Result{Header: &hdr, Body: body, Matched: false}, nil
	}

	copy(body[idx:idx+len(spec.Modified)], spec.Modified)

	hdr.BodyChecksum = fls.Checksum(body)
	hdr.Seal()

	return &Result{Header: &hdr, Body: body, Matched: true}, nil
}

// PatchAll folds a sequence of specs over one image: each spec searches
// the body as left by the previous ones. A mis-sized spec is skipped
// with a warning rather than failing the batch. The returned Result
// reflects the final body; Matched is true if any spec matched.
func PatchAll(img *fls.Image, specs []Spec) (*Result, []PairResult, error) {
	if !img.Valid() {
		return nil, nil, errors.Wrapf(ErrImageInvalid, "image %s", img.ID)
	}

	body := fls.Extract(img.Body)
	hdr := *img.Header

	pairs := make([]PairResult, 0, len(specs))
	any := false
	for _, spec := range specs {
		if len(spec.Reference) != len(spec.Modified) {
			log.Printf("[Warning] %q: reference and modification data differ in size, skipping\n", spec.Name)
			pairs = append(pairs, PairResult{Name: spec.Name, Skipped: true})
			continue
		}

		matched := false
		if idx := bytes.Index(body, spec.Reference); idx >= 0 {
			copy(body[idx:idx+len(spec.Modified)], spec.Modified)
			matched = true
			any = true
		}
		pairs = append(pairs, PairResult{Name: spec.Name, Matched: matched})
	}

	if any {
		hdr.BodyChecksum = fls.Checksum(body)
		hdr.Seal()
	}

	return &Result{Header: &hdr, Body: body, Matched: any}, pairs, nil
}
