// Package schedule normalizes, validates and aggregates per-month allocation
// schedules.
package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// DateLayout is the only accepted date format for schedule rows.
const DateLayout = "2006-01-02"

// CommentMarker starts a month field that marks the whole row as a comment.
const CommentMarker = "#"

// Row is one normalized schedule record. The amount fields hold unlock
// figures for vesting schedules and emission figures for emission schedules.
type Row struct {
	// Line is the 1-based line of the record in its source file, 0 for rows
	// built in memory.
	Line int

	Month      int
	Date       string
	Tier       string
	BucketName string

	AmountTokens     float64
	AmountPct        float64
	CumulativeTokens float64
	CumulativePct    float64
	Notes            string
}

func (r Row) Key() types.BucketKey { return types.NewBucketKey(r.Tier, r.BucketName) }

// ParseError is a structural problem with a schedule file. It aborts the run
// instead of being reported as a finding.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrTokenRange is wrapped by ParseError when a token count does not fit the
// integer fields of the output documents.
var ErrTokenRange = errors.New("token count out of range")

// ErrMissingColumn is wrapped by ParseError when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Columns returns the header names a schedule of the given kind must carry.
func Columns(kind types.ScheduleKind) []string {
	return []string{
		"month", "date", "tier", "bucket_name",
		kind.AmountColumn(), kind.AmountPctColumn(),
		"cumulative_tokens", "cumulative_pct_of_bucket",
	}
}

// ReadFile opens path and reads it with ReadRows.
func ReadFile(path string, kind types.ScheduleKind) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows(f, kind)
}

// ReadRows parses a CSV schedule with a header line. Rows whose month field
// starts with CommentMarker are skipped. Order is preserved.
func ReadRows(r io.Reader, kind types.ScheduleKind) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schedule header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range Columns(kind) {
		if _, ok := index[col]; !ok {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w %q", ErrMissingColumn, col)}
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read schedule: %w", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		if strings.HasPrefix(field("month"), CommentMarker) {
			continue
		}
		row, err := parseRecord(line, field, kind)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(line int, field func(string) string, kind types.ScheduleKind) (Row, error) {
	row := Row{
		Line:       line,
		Tier:       field("tier"),
		BucketName: field("bucket_name"),
		Notes:      field("notes"),
	}

	raw := strings.TrimSpace(field("month"))
	month, err := strconv.Atoi(raw)
	if err != nil {
		return Row{}, &ParseError{Line: line, Column: "month", Value: raw, Err: errors.New("not an integer")}
	}
	if month < 0 {
		return Row{}, &ParseError{Line: line, Column: "month", Value: raw, Err: errors.New("must not be negative")}
	}
	row.Month = month

	row.Date = strings.TrimSpace(field("date"))
	if _, err := time.Parse(DateLayout, row.Date); err != nil {
		return Row{}, &ParseError{Line: line, Column: "date", Value: row.Date, Err: errors.New("expected YYYY-MM-DD")}
	}

	numbers := []struct {
		col    string
		dst    *float64
		tokens bool
	}{
		{kind.AmountColumn(), &row.AmountTokens, true},
		{kind.AmountPctColumn(), &row.AmountPct, false},
		{"cumulative_tokens", &row.CumulativeTokens, true},
		{"cumulative_pct_of_bucket", &row.CumulativePct, false},
	}
	for _, n := range numbers {
		raw := strings.TrimSpace(field(n.col))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Row{}, &ParseError{Line: line, Column: n.col, Value: raw, Err: errors.New("not a number")}
		}
		if n.tokens && math.Abs(v) >= MaxTokens {
			return Row{}, &ParseError{Line: line, Column: n.col, Value: raw, Err: ErrTokenRange}
		}
		*n.dst = v
	}
	return row, nil
}
