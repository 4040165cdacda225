package cost

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/records-drivecost/internal/failure"
)

// InflationTable maps a calendar year to its inflation rate (0.034 = 3.4%)
type InflationTable map[int]float64

// LoadInflationTable reads a year,rate CSV with a header row
func LoadInflationTable(ctx context.Context, path string) (InflationTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.New(failure.KindMissingFile, "load inflation table", err)
		}
		return nil, failure.New(failure.KindMalformedFile, "load inflation table", err)
	}
	defer f.Close()

	table, err := ParseInflationTable(f)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "cost").
		Str("path", path).
		Int("years", len(table)).
		Msg("Inflation table loaded")
	return table, nil
}

// ParseInflationTable decodes the CSV body; the first row is the header
func ParseInflationTable(r io.Reader) (InflationTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, failure.Newf(failure.KindMalformedFile, "parse inflation table", "missing header row")
		}
		return nil, failure.New(failure.KindMalformedFile, "parse inflation table", err)
	}

	table := make(InflationTable)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, failure.New(failure.KindMalformedFile, "parse inflation table", err)
		}
		if len(row) < 2 {
			return nil, failure.Newf(failure.KindMalformedFile, "parse inflation table", "line %d: expected year,rate", line)
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, failure.New(failure.KindMalformedFile, "parse inflation table", fmt.Errorf("line %d: year: %w", line, err))
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, failure.New(failure.KindMalformedFile, "parse inflation table", fmt.Errorf("line %d: rate: %w", line, err))
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= -1 {
			return nil, failure.Newf(failure.KindMalformedFile, "parse inflation table", "line %d: rate %v out of range", line, rate)
		}
		table[year] = rate
	}
	return table, nil
}
