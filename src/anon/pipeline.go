package anon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/medrecords/csv-anonymizer/src/errs"
)

const (
	utf8BOM = "\ufeff"

	// MAX_FIELD_SIZE bounds a single field; a runaway quoted field would
	// otherwise swallow the rest of the document.
	MAX_FIELD_SIZE = 128 * 1024
)

var errFieldTooLarge = fmt.Errorf("field larger than field limit (%d)", MAX_FIELD_SIZE)

// Pipeline anonymizes a whole CSV document in memory.
// Any error aborts the document; no partial output is ever returned.
type Pipeline struct {
	rowTransformer *RowTransformer
}

func NewPipeline(rowTransformer *RowTransformer) *Pipeline {
	return &Pipeline{rowTransformer: rowTransformer}
}

func (p *Pipeline) Transform(raw string) (TransformResult, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, utf8BOM)))
	reader.FieldsPerRecord = -1 // short rows are reported per missing field instead
	reader.LazyQuotes = true

	header, err := readFields(reader)
	if err == io.EOF {
		return TransformResult{}, errs.NewMissingColumnsError(InputSchema)
	}
	if err != nil {
		return TransformResult{}, err
	}
	columnIndex, err := indexInputColumns(header)
	if err != nil {
		return TransformResult{}, err
	}

	var sb strings.Builder
	writeLine(&sb, OutputSchema)

	rows := 0
	values := make([]string, len(OutputSchema))
	for {
		fields, err := readFields(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return TransformResult{}, err
		}
		rows++

		rec, err := projectRecord(rows, fields, columnIndex)
		if err != nil {
			return TransformResult{}, err
		}
		anonymized, err := p.rowTransformer.TransformRow(rec)
		if err != nil {
			return TransformResult{}, withRow(err, rows)
		}
		for i, col := range OutputSchema {
			if strings.ContainsAny(anonymized[col], FIELD_DELIMITER+"\r\n") {
				return TransformResult{}, errs.NewUnescapedValueError(rows, col, anonymized[col])
			}
			values[i] = anonymized[col]
		}
		writeLine(&sb, values)
	}

	log.Debugf("anonymized %d rows", rows)
	return TransformResult{Rows: rows, Output: sb.String()}, nil
}

func readFields(reader *csv.Reader) ([]string, error) {
	fields, err := reader.Read()
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, errs.NewParseError(err)
	}
	if lo.SomeBy(fields, func(f string) bool { return len(f) > MAX_FIELD_SIZE }) {
		line, _ := reader.FieldPos(0)
		return nil, errs.NewParseError(fmt.Errorf("record on line %d: %w", line, errFieldTooLarge))
	}
	return fields, nil
}

// indexInputColumns maps each InputSchema column to its position in header.
// When a column name repeats, the last occurrence wins.
func indexInputColumns(header []string) (map[string]int, error) {
	headerSet := mapset.NewThreadUnsafeSet[string](header...)
	missing := lo.Filter(InputSchema, func(col string, _ int) bool {
		return !headerSet.Contains(col)
	})
	if len(missing) > 0 {
		return nil, errs.NewMissingColumnsError(missing)
	}

	index := make(map[string]int, len(InputSchema))
	for i, col := range header {
		if lo.Contains(InputSchema, col) {
			index[col] = i
		}
	}
	return index, nil
}

func projectRecord(row int, fields []string, columnIndex map[string]int) (Record, error) {
	rec := make(Record, len(InputSchema))
	for _, col := range InputSchema {
		i := columnIndex[col]
		if i >= len(fields) {
			return nil, errs.NewMissingFieldError(row, col)
		}
		rec[col] = fields[i]
	}
	return rec, nil
}

func withRow(err error, row int) error {
	var formatErr *errs.FormatError
	var missingErr *errs.MissingFieldError
	switch {
	case errors.As(err, &formatErr):
		formatErr.Row = row
	case errors.As(err, &missingErr):
		missingErr.Row = row
	}
	return err
}

// writeLine joins values without any quoting; callers reject values holding the
// delimiter or a line break.
func writeLine(sb *strings.Builder, values []string) {
	sb.WriteString(strings.Join(values, FIELD_DELIMITER))
	sb.WriteString(LINE_TERMINATOR)
}
