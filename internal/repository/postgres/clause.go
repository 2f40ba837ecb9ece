package postgres

import (
	"strconv"
	"strings"

	"dochive/internal/domain/models"
)

// Clause is one predicate over the documents table, written with ?
// placeholders. Clauses are composed with AND by WhereBuilder and renumbered
// to positional $N parameters once the full statement is assembled, which
// keeps each clause independently testable.
type Clause struct {
	Expr string
	Args []interface{}
}

// WhereBuilder accumulates optional predicate clauses.
type WhereBuilder struct {
	clauses []Clause
}

// Add appends a predicate written with ? placeholders.
func (b *WhereBuilder) Add(expr string, args ...interface{}) {
	b.clauses = append(b.clauses, Clause{Expr: expr, Args: args})
}

// AddClause appends a prebuilt clause.
func (b *WhereBuilder) AddClause(c Clause) {
	b.clauses = append(b.clauses, c)
}

// Empty reports whether no clauses were added.
func (b *WhereBuilder) Empty() bool {
	return len(b.clauses) == 0
}

// Where returns the combined predicate (without the WHERE keyword) and its
// arguments in order. An empty builder yields "TRUE" so callers can always
// interpolate the result.
func (b *WhereBuilder) Where() (string, []interface{}) {
	if len(b.clauses) == 0 {
		return "TRUE", nil
	}

	exprs := make([]string, len(b.clauses))
	var args []interface{}
	for i, c := range b.clauses {
		exprs[i] = "(" + c.Expr + ")"
		args = append(args, c.Args...)
	}
	return strings.Join(exprs, " AND "), args
}

// Rebind rewrites ? placeholders to sequential $1..$N positional
// parameters. Our statements never carry literal question marks, so a plain
// scan is enough.
func Rebind(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(sql[i])
	}
	return b.String()
}

// VisibilityClause returns the predicate narrowing a document query to what
// the viewer may see. Staff are unrestricted, so ok is false and no clause
// applies.
func VisibilityClause(v models.Viewer) (Clause, bool) {
	if v.Staff {
		return Clause{}, false
	}
	if !v.Authenticated {
		return Clause{Expr: "d.is_public = TRUE"}, true
	}
	return Clause{
		Expr: "d.is_public = TRUE OR d.author_id = ?",
		Args: []interface{}{v.UserID},
	}, true
}
