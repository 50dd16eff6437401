package csv

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/errs"
)

const (
	// DefaultMaxRows is the row count advertised to users.
	DefaultMaxRows = 10000

	// SampleFileName is the name offered for the sample template.
	SampleFileName = "sample_recipients.csv"
)

var (
	// ErrInvalidFormat is returned when the file is not a CSV file.
	ErrInvalidFormat = errors.New("invalid file format: a .csv file is required")

	// ErrEmptyFile is returned when no valid recipient could be read.
	ErrEmptyFile = errors.New("no valid recipient found in file")

	// ErrTooManyRows is returned by the reject policy.
	ErrTooManyRows = errors.New("too many rows")

	csvMediaTypes = []string{"text/csv", "application/vnd.ms-excel"}
)

// LimitPolicy decides what happens to files above the row limit.
type LimitPolicy string

const (
	Advisory LimitPolicy = "advisory"
	Truncate LimitPolicy = "truncate"
	Reject   LimitPolicy = "reject"
)

// LimitPolicyFromString parses string to a LimitPolicy const.
func LimitPolicyFromString(s string) (LimitPolicy, error) {
	switch strings.ToLower(s) {
	case "", "advisory":
		return Advisory, nil
	case "truncate":
		return Truncate, nil
	case "reject":
		return Reject, nil
	default:
		return "", errs.New("invalid row limit policy %q", s)
	}
}

type Limit struct {
	// Max is the row limit. If <= 0, no limit applies.
	Max int

	Policy LimitPolicy
}

// DefaultLimit is advisory at DefaultMaxRows.
var DefaultLimit = Limit{Max: DefaultMaxRows, Policy: Advisory}

func (l Limit) apply(result Result) (Result, error) {
	if l.Max <= 0 || len(result.Rows) <= l.Max {
		return result, nil
	}
	switch l.Policy {
	case Reject:
		return Result{}, fmt.Errorf("%w: %d rows exceed the limit of %d", ErrTooManyRows, len(result.Rows), l.Max)
	case Truncate:
		result.Rows = result.Rows[:l.Max]
		result.OverLimit = true
	default:
		result.OverLimit = true
	}
	return result, nil
}

// Import validates the file name and media type and parses the content.
// The media type is optional; when it is set it must be a CSV type.
func Import(name, mediaType string, data []byte, limit Limit) (Result, error) {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return Result{}, ErrInvalidFormat
	}
	if mediaType != "" {
		mt, _, err := mime.ParseMediaType(mediaType)
		if err != nil || !stringInSet(mt, csvMediaTypes) {
			return Result{}, ErrInvalidFormat
		}
	}

	result, err := limit.apply(ParseDetailed(data))
	if err != nil {
		return Result{}, err
	}
	if len(result.Rows) == 0 {
		return result, ErrEmptyFile
	}
	return result, nil
}

// Load reads and imports a recipients CSV file from disk.
func Load(path string, limit Limit) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errs.Wrap(err)
	}
	return Import(filepath.Base(path), "", data, limit)
}

func stringInSet(s string, ss []string) bool {
	for _, x := range ss {
		if s == x {
			return true
		}
	}
	return false
}
