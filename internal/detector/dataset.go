package detector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrDatasetUnreadable signals that the sample dataset source could not be
// read at all. Callers are expected to degrade to a simulated series rather
// than surface this to the API caller.
var ErrDatasetUnreadable = errors.New("sample dataset unreadable")

// SampleDataset holds the parsed labeled demo dataset as parallel columns.
type SampleDataset struct {
	Power  []float64
	Labels []int
}

// LoadSampleDataset reads and parses the CSV dataset at path.
func LoadSampleDataset(path string) (*SampleDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnreadable, err)
	}
	defer f.Close()
	return ParseSampleDataset(f)
}

// ParseSampleDataset parses a `timestamp,power,label,...` record set with
// one header line. Records missing a parseable power or a 0/1 label are
// dropped; a source that cannot be read at all yields ErrDatasetUnreadable.
func ParseSampleDataset(r io.Reader) (*SampleDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnreadable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty source", ErrDatasetUnreadable)
	}

	ds := &SampleDataset{}
	for _, record := range records[1:] { // skip header
		if len(record) < 3 {
			continue
		}
		power, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		label, err := strconv.Atoi(record[2])
		if err != nil || (label != 0 && label != 1) {
			continue
		}
		ds.Power = append(ds.Power, power)
		ds.Labels = append(ds.Labels, label)
	}

	return ds, nil
}
