// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/usedbytes/log"

	"github.com/flstweak/fls-tools/lib/fls"
	"github.com/flstweak/fls-tools/lib/manifest"
	"github.com/flstweak/fls-tools/lib/patch"
)

func loadContainer(ctx *cli.Context) (*fls.Container, string, error) {
	if ctx.Args().Len() != 1 {
		return nil, "", fmt.Errorf("INPUT_FILE is required")
	}
	fname := ctx.Args().First()

	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fname, errors.Wrap(err, "reading input file")
	}

	c, err := fls.Parse(data)
	if c != nil {
		log.Println("Detected firmware type:", c.Variant)
	}
	return c, fname, err
}

func baseName(fname string) string {
	return strings.TrimSuffix(fname, filepath.Ext(fname))
}

func infoAction(ctx *cli.Context) error {
	c, _, err := loadContainer(ctx)
	if c != nil {
		for _, img := range c.Images {
			printImage(img, nil)
		}
	}
	return err
}

func loadSpecs(target string) ([]patch.Spec, error) {
	fi, err := os.Stat(target)
	if err != nil {
		return nil, errors.Wrap(err, "invalid replacement reference file or directory")
	}
	if fi.IsDir() {
		return patch.LoadDir(target)
	}
	spec, err := patch.LoadPair(target)
	if err != nil {
		return nil, err
	}
	return []patch.Spec{spec}, nil
}

func extractBody(fname string, id fls.ImageID, body []byte, modified bool) (string, error) {
	suffix := ""
	if modified {
		suffix = "_mod"
	}
	out := fmt.Sprintf("%s_image%s%s.img", baseName(fname), id, suffix)
	if err := os.WriteFile(out, fls.Extract(body), 0644); err != nil {
		return "", errors.Wrap(err, "writing image file")
	}
	return out, nil
}

func replaceAction(ctx *cli.Context) error {
	c, fname, err := loadContainer(ctx)
	if err != nil {
		return err
	}

	if c.Variant == fls.VariantA {
		return fmt.Errorf("data replacement is not supported for W60x-series firmware")
	}

	specs, err := loadSpecs(ctx.String("target"))
	if err != nil {
		return err
	}

	output := ctx.String("output")
	if output == "" {
		output = baseName(fname) + "_mod.fls"
	}

	buf := &bytes.Buffer{}
	for _, img := range c.Images {
		var res *patch.Result
		var pairs []patch.PairResult

		if img.Valid() {
			res, pairs, err = patch.PatchAll(img, specs)
			if err != nil {
				return err
			}
			buf.Write(res.Header.Encode())
			buf.Write(res.Body)
		} else {
			// Corrupt images pass through untouched.
			buf.Write(img.Header.Encode())
			buf.Write(img.Body)
		}

		printImage(img, res)
		printPairs(pairs)

		if ctx.Bool("extract") {
			out, err := extractBody(fname, img.ID, img.Body, false)
			if err != nil {
				return err
			}
			if res != nil && res.Matched {
				mod, err := extractBody(fname, img.ID, res.Body, true)
				if err != nil {
					return err
				}
				log.Printf("  [Extract] Saved original image as %s, modified image as %s\n", out, mod)
			} else {
				log.Printf("  [Extract] Saved image as %s\n", out)
			}
		}
	}

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	log.Printf("\n[Output] Saved processed firmware as %s\n", output)

	return nil
}

func extractAction(ctx *cli.Context) error {
	c, fname, err := loadContainer(ctx)
	if c != nil {
		for _, img := range c.Images {
			printImage(img, nil)
			out, werr := extractBody(fname, img.ID, img.Body, false)
			if werr != nil {
				return werr
			}
			log.Printf("  [Extract] Saved image as %s\n", out)
		}
	}
	return err
}

func manifestAction(ctx *cli.Context) error {
	c, fname, err := loadContainer(ctx)
	if err != nil {
		return err
	}

	m := manifest.FromContainer(c)

	output := ctx.String("output")
	if output == "" {
		output = baseName(fname) + ".toml"
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "creating manifest file")
	}
	defer f.Close()

	if err := m.Encode(f); err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	log.Printf("[Output] Saved manifest as %s\n", output)

	return nil
}

func main() {
	app := &cli.App{
		Name:  "flstweak",
		Usage: "Parse, replace, and extract data from Winner Micro .fls firmware files",
		// Just ignore errors - we'll handle them ourselves in main()
		ExitErrHandler: func(c *cli.Context, e error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Enable more output",
				Required: false,
				Value:    false,
			},
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show information about each image in the firmware",
			ArgsUsage: "INPUT_FILE",
			Action:    infoAction,
		},
		{
			Name:      "replace",
			Usage:     "Replace image data and rewrite checksums",
			ArgsUsage: "INPUT_FILE",
			Action:    replaceAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "target",
					Aliases:  []string{"t"},
					Usage:    "Reference file (suffix: ref.bin) or directory of reference/modified pairs",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file for modified firmware (default: <input>_mod.fls)",
				},
				&cli.BoolFlag{
					Name:  "extract",
					Usage: "Also extract original and modified image bodies",
				},
			},
		},
		{
			Name:      "extract",
			Usage:     "Extract each image body to its own file",
			ArgsUsage: "INPUT_FILE",
			Action:    extractAction,
		},
		{
			Name:      "manifest",
			Usage:     "Write a TOML description of the firmware contents",
			ArgsUsage: "INPUT_FILE",
			Action:    manifestAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file for the manifest (default: <input>.toml)",
				},
			},
		},
	}

	app.Before = func(ctx *cli.Context) error {
		log.SetUseLog(false)
		log.SetVerbose(ctx.Bool("verbose"))
		log.Verboseln("Extra output enabled.")
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Println("ERROR:", err)
		if v, ok := err.(cli.ExitCoder); ok {
			os.Exit(v.ExitCode())
		} else {
			os.Exit(1)
		}
	}
}
