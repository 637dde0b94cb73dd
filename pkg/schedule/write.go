package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

// WriteRows writes rows as a CSV schedule that ReadRows accepts, including
// the optional notes column.
func WriteRows(w io.Writer, kind types.ScheduleKind, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(Columns(kind), "notes")); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Month),
			r.Date,
			r.Tier,
			r.BucketName,
			types.FormatNumber(r.AmountTokens),
			types.FormatNumber(r.AmountPct),
			types.FormatNumber(r.CumulativeTokens),
			types.FormatNumber(r.CumulativePct),
			r.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path with WriteRows.
func WriteCSVFile(path string, kind types.ScheduleKind, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRows(f, kind, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
