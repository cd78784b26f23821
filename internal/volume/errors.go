package volume

import "errors"

var (
	// ErrInvalidTable reports a table that cannot be constructed (ragged columns,
	// duplicate or empty names, non-text key).
	ErrInvalidTable = errors.New("invalid table")
	// ErrMissingColumn reports a named column that is not present.
	ErrMissingColumn = errors.New("missing column")
	// ErrNotNumeric reports a column used as a measure that holds text.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrNotText reports a column used as a key or label that holds numbers.
	ErrNotText = errors.New("column is not text")
	// ErrShapeMismatch reports a merged table that is not exactly key + 2 measures.
	ErrShapeMismatch = errors.New("unexpected table shape")
	// ErrNameCollision reports a join whose _x/_y suffixing would duplicate a column.
	ErrNameCollision = errors.New("join column name collision")
	// ErrInvalidArgument reports an out-of-range scalar argument.
	ErrInvalidArgument = errors.New("invalid argument")
)
