// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"embed"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pkg/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// DefaultMaxSteps is the default step limit of a single simulation.
//
const DefaultMaxSteps = 1000000

// A Sweep describes a set of test configurations: the cross product of tests,
// data widths, clock modes, and FIFO slot counts. The FIFO test also runs
// with the extra FIFOWidths.
//
// A zero Seed lets the caller pick one (see cmd/cdcsweep). Configurations get
// consecutive seeds starting from Seed.
//
type Sweep struct {
	Tests      []string `json:"tests"`
	Widths     []int    `json:"widths"`
	FIFOWidths []int    `json:"fifoWidths"`
	Slots      []int    `json:"slots"`
	Modes      []string `json:"modes"`
	Iterations int      `json:"iterations"`
	Seed       int64    `json:"seed"`
	MaxSteps   uint     `json:"maxSteps"`
}

// DefaultSweep returns the default sweep: all tests with data widths 1, 2, 4
// and 8, plus 16, 32 and 64 for the FIFO, FIFO slot counts from 2 to 128,
// both clock modes, 8 iterations each.
//
func DefaultSweep() *Sweep {
	return &Sweep{
		Tests:      append([]string(nil), Tests...),
		Widths:     []int{1, 2, 4, 8},
		FIFOWidths: []int{16, 32, 64},
		Slots:      []int{2, 4, 8, 16, 32, 64, 128},
		Modes:      []string{ASlow.String(), AFast.String()},
		Iterations: 8,
		MaxSteps:   DefaultMaxSteps,
	}
}

func loadSchema(ctx *cue.Context) (cue.Value, error) {
	src, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return cue.Value{}, errors.Wrap(err, "loading embedded schema")
	}
	schema := ctx.CompileBytes(src, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, errors.Wrap(err, "compiling schema")
	}
	def := schema.LookupPath(cue.ParsePath("#Sweep"))
	if err := def.Err(); err != nil {
		return cue.Value{}, errors.Wrap(err, "looking up #Sweep definition")
	}
	return def, nil
}

// ParseSweep parses a sweep description in CUE or JSON format. The source is
// unified with the sweep schema; omitted fields get their default value.
//
func ParseSweep(src []byte) (*Sweep, error) {
	ctx := cuecontext.New()
	def, err := loadSchema(ctx)
	if err != nil {
		return nil, err
	}
	v := ctx.CompileBytes(src, cue.Filename("sweep"))
	if err := v.Err(); err != nil {
		return nil, errors.Wrap(err, "compiling sweep")
	}
	u := def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Wrap(err, "schema validation failed")
	}
	var sw Sweep
	if err := u.Decode(&sw); err != nil {
		return nil, errors.Wrap(err, "decoding sweep")
	}
	return &sw, nil
}

// LoadSweep loads and parses the given sweep file.
//
func LoadSweep(path string) (*Sweep, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading sweep")
	}
	sw, err := ParseSweep(src)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return sw, nil
}

// Configs expands the sweep into a list of validated configurations.
//
func (sw *Sweep) Configs() ([]Config, error) {
	var modes []Mode
	for _, n := range sw.Modes {
		m, err := ParseMode(n)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	var cfgs []Config
	add := func(c Config) error {
		c.Iterations = sw.Iterations
		c.Seed = sw.Seed + int64(len(cfgs))
		c.MaxSteps = sw.MaxSteps
		if err := c.Validate(); err != nil {
			return err
		}
		cfgs = append(cfgs, c)
		return nil
	}
	for _, t := range sw.Tests {
		widths := sw.Widths
		if t == TestFIFO {
			widths = append(append([]int(nil), sw.Widths...), sw.FIFOWidths...)
		}
		for _, w := range widths {
			for _, m := range modes {
				if t != TestFIFO {
					if err := add(Config{Test: t, Width: w, Mode: m}); err != nil {
						return nil, err
					}
					continue
				}
				for _, n := range sw.Slots {
					if err := add(Config{Test: t, Width: w, Slots: n, Mode: m}); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	if len(cfgs) == 0 {
		return nil, errors.New("empty sweep")
	}
	return cfgs, nil
}
