// SPDX-License-Identifier: MIT

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
)

// Leading index cells per layout.
const (
	stressorLead = 1
	leontiefLead = 2
)

var (
	errEmptyFile   = errors.New("no header rows")
	errEmptyLabel  = errors.New("empty label")
	errRowWidth    = errors.New("row width differs from header")
	errEmptyValue  = errors.New("empty value")
	errHeaderWidth = errors.New("header rows differ in width")
	errNoData      = errors.New("no data rows")
)

// csvReader wraps encoding/csv with the source name for error reporting.
type csvReader struct {
	name string
	r    *csv.Reader
	last int // input line of the last record read
}

func newCSVReader(name string, r io.Reader) *csvReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // widths are checked against the header
	cr.TrimLeadingSpace = true

	return &csvReader{name: name, r: cr}
}

// line returns the 1-based input line of the last record read.
func (c *csvReader) line() int { return c.last }

func (c *csvReader) fail(field int, err error) error {
	return &ParseError{Source: c.name, Line: c.line(), Field: field, Err: err}
}

// read returns the next record; io.EOF passes through untouched.
func (c *csvReader) read() ([]string, error) {
	rec, err := c.r.Read()
	if err == nil {
		c.last, _ = c.r.FieldPos(0)
		return rec, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, &ParseError{Source: c.name, Line: pe.Line, Err: pe.Err}
	}

	return nil, fmt.Errorf("ingest: read %s: %w", c.name, err)
}

// header reads the region and sector header rows and returns the column keys
// plus the first data record (nil at EOF), having skipped an index-name row.
func (c *csvReader) header(lead int) (*producer.Index, []string, error) {
	regions, err := c.read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Source: c.name, Line: 1, Err: errEmptyFile}
	}
	if err != nil {
		return nil, nil, err
	}
	sectors, err := c.read()
	if errors.Is(err, io.EOF) {
		return nil, nil, &ParseError{Source: c.name, Line: 2, Err: errEmptyFile}
	}
	if err != nil {
		return nil, nil, err
	}
	if len(regions) != len(sectors) {
		return nil, nil, c.fail(0, errHeaderWidth)
	}
	if len(regions) <= lead {
		return nil, nil, c.fail(0, fmt.Errorf("%w: no producer columns", errRowWidth))
	}

	keys := make([]producer.Key, 0, len(regions)-lead)
	for f := lead; f < len(regions); f++ {
		region, sector := strings.TrimSpace(regions[f]), strings.TrimSpace(sectors[f])
		if region == "" || sector == "" {
			return nil, nil, c.fail(f+1, errEmptyLabel)
		}
		keys = append(keys, producer.K(region, sector))
	}
	idx, err := producer.NewIndex(keys)
	if err != nil {
		return nil, nil, c.fail(0, err)
	}

	first, err := c.read()
	if errors.Is(err, io.EOF) {
		return idx, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if isIndexNameRow(first, lead) {
		first, err = c.read()
		if errors.Is(err, io.EOF) {
			return idx, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return idx, first, nil
}

// isIndexNameRow reports whether every value cell of rec is blank.
func isIndexNameRow(rec []string, lead int) bool {
	if len(rec) <= lead {
		return true
	}
	for _, v := range rec[lead:] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}

// values parses rec[lead:] as finite floats; rec must match the header width.
func (c *csvReader) values(rec []string, lead, width int) ([]float64, error) {
	if len(rec) != lead+width {
		return nil, c.fail(0, fmt.Errorf("%w: %d fields, want %d", errRowWidth, len(rec), lead+width))
	}
	out := make([]float64, width)
	for f := 0; f < width; f++ {
		raw := strings.TrimSpace(rec[lead+f])
		if raw == "" {
			return nil, c.fail(lead+f+1, errEmptyValue)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, c.fail(lead+f+1, err)
		}
		out[f] = v
	}
	if err := matrix.ValidateFiniteVec(out); err != nil {
		var nf *matrix.NonFiniteError
		if errors.As(err, &nf) {
			return nil, c.fail(lead+nf.Index+1, err)
		}
		return nil, c.fail(0, err)
	}

	return out, nil
}

// label returns the trimmed index cell at position f or a parse error.
func (c *csvReader) label(rec []string, f int) (string, error) {
	if f >= len(rec) {
		return "", c.fail(0, errRowWidth)
	}
	v := strings.TrimSpace(rec[f])
	if v == "" {
		return "", c.fail(f+1, errEmptyLabel)
	}

	return v, nil
}

// ParseStressors reads an S export.
// Implementation:
//   - Stage 1: two header rows build the producer column index.
//   - Stage 2: each data row yields a stressor label and a finite value row.
//   - Stage 3: table.NewStressorTable enforces unique labels and shape.
//
// Errors:
//   - *ParseError (matches ErrParse) with source, line and field.
//   - table.ErrDuplicateStressor for repeated labels.
//
// Complexity:
//   - Time O(s*p), Space O(s*p).
func ParseStressors(name string, r io.Reader) (*table.StressorTable, error) {
	c := newCSVReader(name, r)
	cols, rec, err := c.header(stressorLead)
	if err != nil {
		return nil, err
	}

	var (
		names  []string
		values [][]float64
	)
	for ; rec != nil; rec, err = c.next() {
		label, lerr := c.label(rec, 0)
		if lerr != nil {
			return nil, lerr
		}
		row, verr := c.values(rec, stressorLead, cols.Len())
		if verr != nil {
			return nil, verr
		}
		names = append(names, label)
		values = append(values, row)
	}
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, &ParseError{Source: name, Line: c.line(), Err: errNoData}
	}

	s, err := table.NewStressorTable(names, cols, values)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", name, err)
	}

	return s, nil
}

// ParseLeontief reads an L export.
// Implementation:
//   - Stage 1: two header rows build the column index.
//   - Stage 2: each data row yields a (region, sector) row key and a finite value row.
//   - Stage 3: square check, then row index must equal column index in set and order.
//
// Errors:
//   - *ParseError (matches ErrParse), ErrNotSquare, ErrIndexMismatch,
//     producer.ErrDuplicateKey for repeated row keys.
//
// Complexity:
//   - Time O(p²), Space O(p²).
func ParseLeontief(name string, r io.Reader) (*table.LeontiefInverse, error) {
	c := newCSVReader(name, r)
	cols, rec, err := c.header(leontiefLead)
	if err != nil {
		return nil, err
	}

	var (
		rowKeys []producer.Key
		values  [][]float64
	)
	for ; rec != nil; rec, err = c.next() {
		region, lerr := c.label(rec, 0)
		if lerr != nil {
			return nil, lerr
		}
		sector, lerr := c.label(rec, 1)
		if lerr != nil {
			return nil, lerr
		}
		row, verr := c.values(rec, leontiefLead, cols.Len())
		if verr != nil {
			return nil, verr
		}
		rowKeys = append(rowKeys, producer.K(region, sector))
		values = append(values, row)
	}
	if err != nil {
		return nil, err
	}
	if len(rowKeys) != cols.Len() {
		return nil, fmt.Errorf("%w: %s has %d rows and %d columns", ErrNotSquare, name, len(rowKeys), cols.Len())
	}
	rows, err := producer.NewIndex(rowKeys)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s row index: %w", name, err)
	}
	if !rows.Equal(cols) {
		sample, count := cols.Missing(rows, table.GapSampleSize)
		if count == 0 {
			return nil, fmt.Errorf("%w: %s rows are ordered differently from columns", ErrIndexMismatch, name)
		}
		return nil, fmt.Errorf("%w: %s: %d column producers have no row, first: %v", ErrIndexMismatch, name, count, sample)
	}

	l, err := table.NewLeontiefInverse(rows, cols, values)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", name, err)
	}

	return l, nil
}

// next reads a record, mapping io.EOF to (nil, nil) so loops end cleanly.
func (c *csvReader) next() ([]string, error) {
	rec, err := c.read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	return rec, err
}
