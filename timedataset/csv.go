package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrColumnNotFound = errors.New("column not found in csv header")
	ErrInvalidValue   = errors.New("invalid value in csv")
	ErrInvalidDate    = errors.New("invalid date in csv")
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string `json:"date_column"`  // column name for dates, empty for an untimed series
	ValueColumn string `json:"value_column"` // column name for values
	DateFormat  string `json:"date_format"`  // time.Parse layout or "unix" for epoch seconds
	HasHeader   bool   `json:"has_header"`
	Delimiter   rune   `json:"delimiter"`
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  time.RFC3339,
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*TimeDataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a series from an io.Reader. When no date column is configured
// the returned dataset has a nil time slice. Rows with values that cannot be parsed are
// errors since dropping them would shift every later point.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*TimeDataset, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	valueIdx, dateIdx := -1, -1
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("unable to read csv header, %w", err)
		}
		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.ValueColumn:
				valueIdx = i
			case opts.DateColumn != "" && h == opts.DateColumn:
				dateIdx = i
			}
		}
		if valueIdx < 0 {
			return nil, fmt.Errorf("value column %q, %w", opts.ValueColumn, ErrColumnNotFound)
		}
		if opts.DateColumn != "" && dateIdx < 0 {
			return nil, fmt.Errorf("date column %q, %w", opts.DateColumn, ErrColumnNotFound)
		}
	} else {
		// without a header a single column is the value, otherwise date then value
		valueIdx = 0
	}

	var (
		values     []float64
		timestamps []time.Time
	)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv row %d, %w", row, err)
		}
		if !opts.HasHeader && row == 1 && len(record) > 1 {
			dateIdx, valueIdx = 0, 1
		}
		if valueIdx >= len(record) {
			return nil, fmt.Errorf("row %d is missing the value column, %w", row, ErrInvalidValue)
		}

		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d value %q, %w", row, valStr, ErrInvalidValue)
		}
		values = append(values, val)

		if dateIdx < 0 {
			continue
		}
		if dateIdx >= len(record) {
			return nil, fmt.Errorf("row %d is missing the date column, %w", row, ErrInvalidDate)
		}
		dateStr := strings.TrimSpace(strings.Trim(record[dateIdx], "\""))
		ts, err := parseDate(dateStr, opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d date %q, %w", row, dateStr, ErrInvalidDate)
		}
		timestamps = append(timestamps, ts)
	}

	if len(values) == 0 {
		return nil, ErrNoTrainingData
	}
	if dateIdx < 0 {
		return &TimeDataset{Y: values}, nil
	}
	return NewUnivariateDataset(timestamps, values)
}

func parseDate(s, layout string) (time.Time, error) {
	if layout == "unix" {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(sec, 0).UTC(), nil
	}
	if layout == "" {
		layout = time.RFC3339
	}
	return time.Parse(layout, s)
}
