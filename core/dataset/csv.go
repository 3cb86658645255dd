package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
)

// WriteCSV writes a header line (x0..xN-1,y) followed by one line per row.
func (d *Dataset) WriteCSV(w io.Writer) error {
	rows, cols := d.X.Dims()
	cw := csv.NewWriter(w)

	record := make([]string, cols+1)
	for j := 0; j < cols; j++ {
		record[j] = fmt.Sprintf("x%d", j)
	}
	record[cols] = "y"
	if err := cw.Write(record); err != nil {
		return errors.Wrap(err, "dataset: write csv header")
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(d.X.At(i, j), 'g', -1, 64)
		}
		record[cols] = strconv.FormatFloat(d.Y[i], 'g', -1, 64)
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "dataset: write csv row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "dataset: flush csv")
	}
	return nil
}

// SaveCSV writes the dataset to path, creating or truncating the file.
func (d *Dataset) SaveCSV(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "dataset: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "dataset: close %s", path)
		}
	}()
	return d.WriteCSV(f)
}
