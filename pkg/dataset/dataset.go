// Package dataset loads interval collections from YAML files for the
// rangekit CLI. A dataset is a named list of closed [low, high] ranges,
// each with an optional label carried through queries as the payload.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rangekit/pkg/alg/interval"
)

// Sentinel validation errors.
var (
	ErrEmptyDataset     = errors.New("dataset: no intervals defined")
	ErrInvertedInterval = errors.New("dataset: interval low must be less than or equal to high")
)

// Interval is one entry of a dataset file.
type Interval struct {
	Low   int64  `yaml:"low"`
	High  int64  `yaml:"high"`
	Label string `yaml:"label"`
}

// Dataset is a named collection of intervals.
type Dataset struct {
	Name      string     `yaml:"name"`
	Intervals []Interval `yaml:"intervals"`
}

// Load reads and validates a dataset from a YAML file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML dataset document.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset

	unmarshalErr := yaml.Unmarshal(data, &ds)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("decode dataset: %w", unmarshalErr)
	}

	validateErr := ds.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return &ds, nil
}

// Validate checks the dataset invariants: at least one interval, and
// low <= high for every entry.
func (d *Dataset) Validate() error {
	if len(d.Intervals) == 0 {
		return ErrEmptyDataset
	}

	for i, iv := range d.Intervals {
		if iv.Low > iv.High {
			return fmt.Errorf("interval %d (%q) [%d, %d]: %w", i, iv.Label, iv.Low, iv.High, ErrInvertedInterval)
		}
	}

	return nil
}

// Tree builds an interval tree over the dataset, keyed by bounds with
// the label as payload.
func (d *Dataset) Tree() *interval.Tree[int64, string] {
	tree := interval.New[int64, string]()

	for _, iv := range d.Intervals {
		// Validated at load time; insertion cannot fail here.
		_ = tree.Insert(iv.Low, iv.High, iv.Label)
	}

	return tree
}

// Iterate emits each interval in file order. It implements the
// rangeindex Source contract.
func (d *Dataset) Iterate(emit func(low, high int64, value string) bool) {
	for _, iv := range d.Intervals {
		if !emit(iv.Low, iv.High, iv.Label) {
			return
		}
	}
}

// Bounds returns the smallest Low and largest High across the dataset.
// Valid only for a non-empty dataset.
func (d *Dataset) Bounds() (int64, int64) {
	low := d.Intervals[0].Low
	high := d.Intervals[0].High

	for _, iv := range d.Intervals[1:] {
		if iv.Low < low {
			low = iv.Low
		}

		if iv.High > high {
			high = iv.High
		}
	}

	return low, high
}
