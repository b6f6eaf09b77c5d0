package anon

import (
	"strconv"
	"time"

	"github.com/medrecords/csv-anonymizer/src/errs"
)

// RowTransformer pseudonymizes one record at a time.
type RowTransformer struct {
	names NameSource
	asOf  time.Time
}

func NewRowTransformer(names NameSource, asOf time.Time) *RowTransformer {
	return &RowTransformer{names: names, asOf: asOf}
}

/*
TransformRow returns a new record shaped like OutputSchema:
  - Fullname is replaced with a generated name of the record's gender
  - Birthdate is replaced with Age as of the transformer's reference date
  - the remaining columns are copied unchanged

The input record is not modified. Returned errors carry row 0; callers that know
the position of the record set it.
*/
func (t *RowTransformer) TransformRow(rec Record) (Record, error) {
	for _, col := range InputSchema {
		if _, ok := rec[col]; !ok {
			return nil, errs.NewMissingFieldError(0, col)
		}
	}

	birthdate, err := ParseBirthdate(rec[BIRTHDATE_COLUMN])
	if err != nil {
		return nil, errs.NewFormatError(0, BIRTHDATE_COLUMN, rec[BIRTHDATE_COLUMN], err)
	}

	out := make(Record, len(OutputSchema))
	for _, col := range OutputSchema {
		if v, ok := rec[col]; ok {
			out[col] = v
		}
	}
	out[FULLNAME_COLUMN] = t.names.Name(GenderFromLabel(rec[GENDER_COLUMN]))
	out[AGE_COLUMN] = strconv.Itoa(AgeFromBirthdate(birthdate, t.asOf))
	return out, nil
}
