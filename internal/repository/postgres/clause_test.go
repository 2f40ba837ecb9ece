package postgres

import (
	"testing"

	"dochive/internal/domain/models"
)

func TestWhereBuilder(t *testing.T) {
	t.Run("empty builder yields TRUE", func(t *testing.T) {
		var b WhereBuilder
		where, args := b.Where()
		if where != "TRUE" {
			t.Errorf("Where() = %q, want TRUE", where)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
		if !b.Empty() {
			t.Error("Empty() = false, want true")
		}
	})

	t.Run("clauses are parenthesized and AND-joined", func(t *testing.T) {
		var b WhereBuilder
		b.Add("d.is_public = TRUE")
		b.Add("d.category_id = ?", "cat-1")
		b.AddClause(Clause{Expr: "d.author_id = ?", Args: []interface{}{"user-1"}})

		where, args := b.Where()
		want := "(d.is_public = TRUE) AND (d.category_id = ?) AND (d.author_id = ?)"
		if where != want {
			t.Errorf("Where() = %q, want %q", where, want)
		}
		if len(args) != 2 || args[0] != "cat-1" || args[1] != "user-1" {
			t.Errorf("args = %v, want [cat-1 user-1]", args)
		}
	})

	t.Run("argument order follows clause order", func(t *testing.T) {
		var b WhereBuilder
		b.Add("a = ? AND b = ?", 1, 2)
		b.Add("c = ?", 3)

		_, args := b.Where()
		for i, want := range []interface{}{1, 2, 3} {
			if args[i] != want {
				t.Errorf("args[%d] = %v, want %v", i, args[i], want)
			}
		}
	})
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "numbers placeholders sequentially",
			input:    "SELECT * FROM d WHERE a = ? AND b = ?",
			expected: "SELECT * FROM d WHERE a = $1 AND b = $2",
		},
		{
			name:     "no placeholders",
			input:    "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "double digit placeholders",
			input:    "? ? ? ? ? ? ? ? ? ? ?",
			expected: "$1 $2 $3 $4 $5 $6 $7 $8 $9 $10 $11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rebind(tt.input); got != tt.expected {
				t.Errorf("Rebind(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestVisibilityClause(t *testing.T) {
	tests := []struct {
		name     string
		viewer   models.Viewer
		wantOK   bool
		wantExpr string
		wantArgs int
	}{
		{
			name:     "anonymous sees public only",
			viewer:   models.Anonymous(),
			wantOK:   true,
			wantExpr: "d.is_public = TRUE",
		},
		{
			name:     "authenticated sees public or own",
			viewer:   models.Viewer{Authenticated: true, UserID: "user-1"},
			wantOK:   true,
			wantExpr: "d.is_public = TRUE OR d.author_id = ?",
			wantArgs: 1,
		},
		{
			name:   "staff is unrestricted",
			viewer: models.Viewer{Authenticated: true, UserID: "admin", Staff: true},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := VisibilityClause(tt.viewer)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if c.Expr != tt.wantExpr {
				t.Errorf("Expr = %q, want %q", c.Expr, tt.wantExpr)
			}
			if len(c.Args) != tt.wantArgs {
				t.Errorf("len(Args) = %d, want %d", len(c.Args), tt.wantArgs)
			}
		})
	}
}
