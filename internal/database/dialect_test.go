package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if !result {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("ForUpdate", func(t *testing.T) {
		if got := dialect.ForUpdate(); got != "" {
			t.Errorf("ForUpdate() = %q, want empty", got)
		}
	})

	t.Run("DSN carries pragmas", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{Path: "/tmp/x.db"})
		for _, want := range []string{"file:/tmp/x.db?", "_foreign_keys=on", "_txlock=immediate"} {
			if !strings.Contains(dsn, want) {
				t.Errorf("DSN() = %q, missing %q", dsn, want)
			}
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if result {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("ForUpdate", func(t *testing.T) {
		if got := dialect.ForUpdate(); got != " FOR UPDATE" {
			t.Errorf("ForUpdate() = %q, want %q", got, " FOR UPDATE")
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		result := dialect.SupportsLastInsertId()
		if !result {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("DSN enables multi statements", func(t *testing.T) {
		tests := map[string]string{
			"user:pw@tcp(db:3306)/verbs":          "user:pw@tcp(db:3306)/verbs?multiStatements=true&parseTime=true",
			"user:pw@tcp(db:3306)/verbs?tls=true": "user:pw@tcp(db:3306)/verbs?tls=true&multiStatements=true&parseTime=true",
			"u@/verbs?multiStatements=true":       "u@/verbs?multiStatements=true",
		}
		for in, want := range tests {
			if got := dialect.DSN(DialectConfig{URL: in}); got != want {
				t.Errorf("DSN(%q) = %q, want %q", in, got, want)
			}
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM moves WHERE session_id = ?",
			expected: "SELECT * FROM moves WHERE session_id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "UPDATE sessions SET challenger_score = challenger_score + ? WHERE id = ?",
			expected: "UPDATE sessions SET challenger_score = challenger_score + $1 WHERE id = $2",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE moves SET answer = ?, is_correct = ? WHERE id = ?",
			expected: "UPDATE moves SET answer = ?, is_correct = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	content := "CREATE TABLE a (id INTEGER);\n\nCREATE INDEX i ON a(id);\n"
	stmts := splitStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("splitStatements() returned %d statements, want 2", len(stmts))
	}
	if stmts[1] != "CREATE INDEX i ON a(id)" {
		t.Errorf("second statement = %q", stmts[1])
	}
}
