// SPDX-License-Identifier: MIT
package patch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/usedbytes/log"
)

// Reference/modified pairs are named by suffix convention: the bytes to
// find live in "<name>ref.bin", the bytes to substitute in the sibling
// "<name>mod.bin".
const (
	RefSuffix = "ref.bin"
	ModSuffix = "mod.bin"
)

// LoadPair loads one spec from a reference file and its sibling
// modified file.
func LoadPair(refPath string) (Spec, error) {
	if !strings.HasSuffix(refPath, RefSuffix) {
		return Spec{}, errors.Errorf("%s: reference file must end in %s", refPath, RefSuffix)
	}

	modPath := strings.TrimSuffix(refPath, RefSuffix) + ModSuffix
	if _, err := os.Stat(modPath); err != nil {
		return Spec{}, errors.Errorf("matching modification file not found for %s", refPath)
	}

	ref, err := os.ReadFile(refPath)
	if err != nil {
		return Spec{}, errors.Wrap(err, "reading reference file")
	}
	mod, err := os.ReadFile(modPath)
	if err != nil {
		return Spec{}, errors.Wrap(err, "reading modification file")
	}

	spec := Spec{
		Name:      filepath.Base(refPath),
		Reference: ref,
		Modified:  mod,
	}
	if len(ref) != len(mod) {
		return spec, errors.Wrapf(ErrSpecSize, "%q: %d != %d", spec.Name, len(ref), len(mod))
	}

	return spec, nil
}

// LoadDir loads every reference/modified pair in dir, sorted by
// reference filename. A reference without a matching modified file is
// skipped with a warning; mis-sized pairs are kept so the batch can
// report them as skipped. A directory with no reference files at all is
// an error.
func LoadDir(dir string) ([]Spec, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+RefSuffix))
	if err != nil {
		return nil, errors.Wrap(err, "scanning replacement directory")
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no reference files found in %s", dir)
	}

	var specs []Spec
	for _, refPath := range matches {
		modPath := strings.TrimSuffix(refPath, RefSuffix) + ModSuffix
		if _, err := os.Stat(modPath); err != nil {
			log.Printf("[Warning] No matching mod file for %s, skipping.\n", filepath.Base(refPath))
			continue
		}

		ref, err := os.ReadFile(refPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading reference file")
		}
		mod, err := os.ReadFile(modPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading modification file")
		}

		specs = append(specs, Spec{
			Name:      filepath.Base(refPath),
			Reference: ref,
			Modified:  mod,
		})
	}

	return specs, nil
}
