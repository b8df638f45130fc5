package control

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultFile is the control file looked up when none is given.
const DefaultFile = "quickcut.csv"

// Template is an example control file.
const Template = `source   ,target,cut_from  ,cut_to
input.mkv,a.mkv ,00:01:00.0,00:02:00.0
input.mkv,a.mkv ,00:10:00.0,00:11:00.0
a.mkv    ,b.mkv ,00:01:00.0,00:02:00.0
input.mkv,b.mkv ,00:20:00.0,00:21:00.0
`

const requiredFields = 4

// ErrMalformed is returned when the control file cannot be tokenized at all.
var ErrMalformed = errors.New("malformed control file")

// NotFoundError is returned by Load when the control file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("control file %s not found\ncreate a new control file %s with a content similar to:\n%s", e.Path, e.Path, Template)
}

// Stats counts what the parser saw after the header.
type Stats struct {
	Rows    int
	Skipped int
}

// Load reads and parses the control file at path.
func Load(path string) (*Plan, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Stats{}, &NotFoundError{Path: path}
		}
		return nil, Stats{}, fmt.Errorf("failed to open control file: %w", err)
	}
	defer f.Close()

	plan, stats, err := Parse(f)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", path, err)
	}
	return plan, stats, nil
}

// Parse builds a plan from control file contents. The first line is the
// header and is always dropped. Rows that do not carry four non-empty fields
// are skipped and only show up in Stats.Skipped.
func Parse(r io.Reader) (*Plan, Stats, error) {
	var stats Stats
	br := bufio.NewReader(r)

	// The header goes by line, not by record, so a blank first line still
	// counts as the header.
	if _, err := br.ReadString('\n'); err != nil {
		if err == io.EOF {
			return NewPlan(), stats, nil
		}
		return nil, stats, err
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	plan := NewPlan()
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, stats, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return nil, stats, err
		}

		stats.Rows++
		row, ok := filterRow(fields)
		if !ok {
			stats.Skipped++
			continue
		}
		plan.Add(row)
	}
	return plan, stats, nil
}

// filterRow trims the fields and keeps the row only if the first four are
// all present and non-empty. Extra columns are ignored.
func filterRow(fields []string) (Row, bool) {
	if len(fields) < requiredFields {
		return Row{}, false
	}
	var values [requiredFields]string
	for i := 0; i < requiredFields; i++ {
		v := strings.TrimSpace(fields[i])
		if v == "" {
			return Row{}, false
		}
		values[i] = v
	}
	return Row{Source: values[0], Target: values[1], CutFrom: values[2], CutTo: values[3]}, true
}
