package dbx

import (
	"database/sql"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
)

// pgtype.Map caches scan plans and is not safe for concurrent use.
var typeMaps = sync.Pool{New: func() any { return pgtype.NewMap() }}

// StringArray returns a scanner that decodes a PostgreSQL text[] column into
// dst. NULL decodes to an empty, non-nil slice.
func StringArray(dst *[]string) sql.Scanner {
	return &stringArray{dst: dst}
}

type stringArray struct {
	dst *[]string
}

func (a *stringArray) Scan(src any) error {
	m := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(m)

	var out []string
	if err := m.SQLScanner(&out).Scan(src); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*a.dst = out
	return nil
}
