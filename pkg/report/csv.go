package report

import (
	"bytes"
	"io"
	"strings"

	"github.com/zeebo/errs"
)

// DefaultCSVFileName is used when the caller does not name the export.
const DefaultCSVFileName = "rapport_paiement.csv"

// CSVBuffer accumulates a report where every field is quoted. Lines are
// separated by "\n" with no trailing newline.
type CSVBuffer struct {
	buf  bytes.Buffer
	cols []Column
}

func NewCSVBuffer(cols []Column) *CSVBuffer {
	return &CSVBuffer{cols: columnsOrDefault(cols)}
}

func (b *CSVBuffer) Emit(row Row) {
	b.init()
	b.write(values(b.cols, row))
}

func (b *CSVBuffer) Finalize() []byte {
	b.init()
	return b.buf.Bytes()
}

func (b *CSVBuffer) init() {
	if b.buf.Len() == 0 {
		b.writeLine(headers(b.cols))
	}
}

func (b *CSVBuffer) write(fields []string) {
	b.buf.WriteByte('\n')
	b.writeLine(fields)
}

func (b *CSVBuffer) writeLine(fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.buf.WriteByte(',')
		}
		b.buf.WriteByte('"')
		b.buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.buf.WriteByte('"')
	}
}

// WriteCSV writes the rows with the given columns. DefaultColumns is used
// when cols is empty.
func WriteCSV(w io.Writer, rows []Row, cols []Column) error {
	b := NewCSVBuffer(cols)
	for _, row := range rows {
		b.Emit(row)
	}
	_, err := w.Write(b.Finalize())
	return errs.Wrap(err)
}
