package timedataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	testData := map[string]struct {
		input    string
		opts     *CSVOptions
		expected *TimeDataset
		err      error
	}{
		"values only": {
			input:    "y\n1\n2.5\n3\n",
			opts:     nil,
			expected: &TimeDataset{Y: []float64{1, 2.5, 3}},
		},
		"dated": {
			input: "ds,sales\n2024-01-01,10\n2024-01-02,12\n",
			opts: &CSVOptions{
				DateColumn:  "ds",
				ValueColumn: "sales",
				DateFormat:  "2006-01-02",
				HasHeader:   true,
			},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{10, 12},
			},
		},
		"unix seconds semicolon": {
			input: "t;v\n0;1\n60;2\n",
			opts: &CSVOptions{
				DateColumn:  "t",
				ValueColumn: "v",
				DateFormat:  "unix",
				HasHeader:   true,
				Delimiter:   ';',
			},
			expected: &TimeDataset{
				T: []time.Time{time.Unix(0, 0).UTC(), time.Unix(60, 0).UTC()},
				Y: []float64{1, 2},
			},
		},
		"no header two columns": {
			input: "2024-01-01T00:00:00Z,4\n2024-01-01T01:00:00Z,5\n",
			opts:  &CSVOptions{DateFormat: time.RFC3339},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
				},
				Y: []float64{4, 5},
			},
		},
		"missing value column": {
			input: "a,b\n1,2\n",
			opts:  nil,
			err:   ErrColumnNotFound,
		},
		"missing date column": {
			input: "y\n1\n",
			opts:  &CSVOptions{DateColumn: "ds", ValueColumn: "y", HasHeader: true},
			err:   ErrColumnNotFound,
		},
		"bad value": {
			input: "y\n1\nNA\n3\n",
			opts:  nil,
			err:   ErrInvalidValue,
		},
		"bad date": {
			input: "ds,y\nyesterday,1\n",
			opts:  &CSVOptions{DateColumn: "ds", ValueColumn: "y", DateFormat: "2006-01-02", HasHeader: true},
			err:   ErrInvalidDate,
		},
		"out of order dates": {
			input: "ds,y\n2024-01-02,1\n2024-01-01,2\n",
			opts:  &CSVOptions{DateColumn: "ds", ValueColumn: "y", DateFormat: "2006-01-02", HasHeader: true},
			err:   ErrNotIncreasing,
		},
		"empty": {
			input: "y\n",
			opts:  nil,
			err:   ErrNoTrainingData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := LoadCSVFromReader(strings.NewReader(td.input), td.opts)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	require.Nil(t, os.WriteFile(path, []byte("y\n1\n2\n"), 0o644))

	res, err := LoadCSV(path, nil)
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, res.Y)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.NotNil(t, err)
}
