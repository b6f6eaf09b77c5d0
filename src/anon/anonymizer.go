package anon

import (
	"slices"

	"github.com/samber/lo"
)

const (
	FULLNAME_COLUMN  = "Fullname"
	BIRTHDATE_COLUMN = "Birthdate"
	AGE_COLUMN       = "Age"
	GENDER_COLUMN    = "Gender"
	SMOKING_COLUMN   = "Smoking"
	WEIGHT_COLUMN    = "Weight"
	HEIGHT_COLUMN    = "Height"
	DISEASE_COLUMN   = "Disease"

	FIELD_DELIMITER = ","
	LINE_TERMINATOR = "\r\n"
)

// InputSchema lists the only columns read from the original document, in order.
// Anything else in the document is dropped.
var InputSchema = []string{
	FULLNAME_COLUMN,
	BIRTHDATE_COLUMN,
	GENDER_COLUMN,
	SMOKING_COLUMN,
	WEIGHT_COLUMN,
	HEIGHT_COLUMN,
	DISEASE_COLUMN,
}

// OutputSchema is InputSchema with Birthdate replaced by Age in the same position.
var OutputSchema = outputSchemaFrom(InputSchema)

func outputSchemaFrom(input []string) []string {
	pos := lo.IndexOf(input, BIRTHDATE_COLUMN)
	return slices.Insert(lo.Without(input, BIRTHDATE_COLUMN), pos, AGE_COLUMN)
}

// Record maps a column name to its raw string value for one CSV data row.
type Record map[string]string

type TransformResult struct {
	Rows   int
	Output string
}

// Transformer is implemented by anything that turns an original document into
// its anonymized form.
type Transformer interface {
	Transform(raw string) (TransformResult, error)
}
