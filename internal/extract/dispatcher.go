// Package extract maps element visits of one ClinVarSet onto a flat record
// through a fixed table of (matcher, setter) rules.
package extract

import (
	"github.com/beevik/etree"

	"clinvartab/internal/tree"
)

// Dispatcher owns the accumulator of the record being walked. It is not
// safe for concurrent use.
type Dispatcher struct {
	build GenomeBuild
	rules Rules
	acc   PartialRecord
}

// NewDispatcher returns a dispatcher applying rules for the given build.
func NewDispatcher(build GenomeBuild, rules Rules) *Dispatcher {
	return &Dispatcher{build: build, rules: rules}
}

// Build is the genome build locus blocks are filtered by.
func (d *Dispatcher) Build() GenomeBuild { return d.build }

// Visit applies every rule matching v.
func (d *Dispatcher) Visit(v tree.Visit) {
	for _, r := range d.rules {
		if r.Match(v) {
			r.Apply(&d.acc, v, d.build)
		}
	}
}

// Current returns a snapshot of the accumulator without resetting it.
func (d *Dispatcher) Current() Record { return d.acc.Finalize() }

// Finish ends the record: it returns the finalized fields and resets the
// accumulator for the next record.
func (d *Dispatcher) Finish() Record {
	rec := d.acc.Finalize()
	d.acc.Reset()
	return rec
}

// Extract walks the tree rooted at root and returns its record. Any fields
// left over from an unfinished record are discarded first.
func (d *Dispatcher) Extract(root *etree.Element) Record {
	d.acc.Reset()
	w := tree.NewWalker(root)
	for w.Next() {
		d.Visit(w.Visit())
	}
	return d.Finish()
}

// ExtractBytes parses one record buffer and extracts it.
func (d *Dispatcher) ExtractBytes(buf []byte) (Record, error) {
	root, err := tree.Parse(buf)
	if err != nil {
		return Record{}, err
	}
	return d.Extract(root), nil
}
