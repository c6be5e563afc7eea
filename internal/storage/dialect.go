package storage

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the SQL backends.
type Dialect struct {
	// Name selects the migration set and labels log lines.
	Name string
	// DriverName is the database/sql driver registered for the backend.
	DriverName string
	// numbered switches ? placeholders to $1, $2, ...
	numbered bool
	// constraint maps a constraint violation to a domain error, nil otherwise.
	constraint func(error) error
}

// rebind rewrites ? placeholders for dialects that use numbered parameters.
func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) constraintError(err error) error {
	if err == nil || d.constraint == nil {
		return nil
	}
	return d.constraint(err)
}
