/*
Package listkit – SQLite datastore.

Documents persist as JSON rows in one table keyed by (list, id);
predicates translate into json_extract WHERE clauses. Uses the pure-Go
modernc driver with WAL and a busy timeout.
*/
package listkit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cmskit/listkit-go/internal/uid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	list TEXT NOT NULL,
	id   TEXT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (list, id)
);
`

// SQLiteStore persists documents in a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	log Logger
}

// NewSQLiteStore opens (or creates) the database at path and prepares
// the documents table. Use ":memory:" for an in-process database.
func NewSQLiteStore(path string, log Logger) (*SQLiteStore, error) {
	if log == nil {
		log = nopLogger{}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single writer; also keeps ":memory:" databases on one connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) CompileSchema(schema *CompiledSchema) (Model, error) {
	return &sqliteModel{store: s, schema: schema}, nil
}

type sqliteModel struct {
	store  *SQLiteStore
	schema *CompiledSchema
}

func (m *sqliteModel) Find(ctx context.Context, q *Query) ([]Document, error) {
	if q == nil {
		q = &Query{}
	}
	if q.Predicate.matchesNothing() {
		return nil, nil
	}
	where, args := m.where(q.Predicate)
	sb := strings.Builder{}
	sb.WriteString("SELECT body FROM documents WHERE ")
	sb.WriteString(where)
	if len(q.Sort) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, d := range q.Sort {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(jsonPath(d.Path))
			if d.Desc {
				sb.WriteString(" DESC")
			}
		}
	}
	if q.Limit > 0 || q.Skip > 0 {
		limit := q.Limit
		if limit == 0 {
			limit = -1
		}
		sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Skip))
	}

	query := sb.String()
	m.store.log.Trace("sqlite query", map[string]any{"list": m.schema.Key, "sql": query})
	rows, err := m.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, err
		}
		if len(q.Columns) > 0 {
			proj := Document{"id": doc["id"]}
			for _, c := range q.Columns {
				if v, ok := doc[c]; ok {
					proj[c] = v
				}
			}
			doc = proj
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (m *sqliteModel) Count(ctx context.Context, p *Predicate) (int, error) {
	if p.matchesNothing() {
		return 0, nil
	}
	where, args := m.where(p)
	var n int
	err := m.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE "+where, args...).Scan(&n)
	return n, err
}

func (m *sqliteModel) Save(ctx context.Context, doc Document) error {
	id := toString(doc["id"])
	if id == "" {
		id = uid.New().String()
		doc["id"] = id
	}
	body, err := json.Marshal(normalizeTimes(doc))
	if err != nil {
		return err
	}
	_, err = m.store.db.ExecContext(ctx, `
		INSERT INTO documents (list, id, body) VALUES (?, ?, ?)
		ON CONFLICT (list, id) DO UPDATE SET body = excluded.body`,
		m.schema.Key, id, string(body))
	return err
}

func (m *sqliteModel) Delete(ctx context.Context, id string) error {
	_, err := m.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE list = ? AND id = ?", m.schema.Key, id)
	return err
}

// ─── predicate translation ────────────────────────────────────────────────────

// where renders the predicate as a WHERE clause over json_extract.
func (m *sqliteModel) where(p *Predicate) (string, []any) {
	clauses := []string{"list = ?"}
	args := []any{m.schema.Key}
	if p != nil {
		for path, c := range p.All {
			clause, cargs := whereClause(path, c)
			clauses = append(clauses, clause)
			args = append(args, cargs...)
		}
		if len(p.Any) > 0 {
			var ors []string
			for path, c := range p.Any {
				clause, cargs := whereClause(path, c)
				ors = append(ors, clause)
				args = append(args, cargs...)
			}
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
		}
	}
	return strings.Join(clauses, " AND "), args
}

func whereClause(path string, c Condition) (string, []any) {
	expr := jsonPath(path)
	var clause string
	var args []any

	cmp := func(op string) {
		if c.Fold {
			clause = fmt.Sprintf("LOWER(%s) %s LOWER(?)", expr, op)
		} else {
			clause = fmt.Sprintf("%s %s ?", expr, op)
		}
		args = append(args, bindValue(c.Value))
	}

	switch c.Op {
	case OpEq:
		cmp("=")
	case OpIn:
		if len(c.Values) == 0 {
			clause = "0 = 1"
			break
		}
		marks := strings.TrimRight(strings.Repeat("?, ", len(c.Values)), ", ")
		clause = fmt.Sprintf("%s IN (%s)", expr, marks)
		for _, v := range c.Values {
			args = append(args, bindValue(v))
		}
	case OpLT:
		cmp("<")
	case OpLTE:
		cmp("<=")
	case OpGT:
		cmp(">")
	case OpGTE:
		cmp(">=")
	case OpBetween:
		clause = fmt.Sprintf("(%s >= ? AND %s <= ?)", expr, expr)
		args = append(args, bindValue(c.Low), bindValue(c.High))
	case OpContains:
		clause = likeClause(expr, c.Fold)
		args = append(args, "%"+escapeLike(toString(bindValue(c.Value)))+"%")
	case OpBegins:
		clause = likeClause(expr, c.Fold)
		args = append(args, escapeLike(toString(bindValue(c.Value)))+"%")
	case OpEnds:
		clause = likeClause(expr, c.Fold)
		args = append(args, "%"+escapeLike(toString(bindValue(c.Value))))
	case OpEmpty:
		clause = fmt.Sprintf("(%s IS NULL OR %s = '')", expr, expr)
	case OpNone:
		clause = "0 = 1"
	default:
		clause = "1 = 1"
	}

	if c.Not {
		// NULL comparisons yield NULL; COALESCE makes absent values
		// count as matched by the complement
		clause = "COALESCE((" + clause + "), 0) = 0"
	}
	return clause, args
}

func likeClause(expr string, fold bool) string {
	if fold {
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE '\\'", expr)
	}
	return fmt.Sprintf("%s LIKE ? ESCAPE '\\'", expr)
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// jsonPath renders the json_extract expression for a field path.
// The id path maps to the dedicated column.
func jsonPath(path string) string {
	if path == "id" {
		return "id"
	}
	return fmt.Sprintf("json_extract(body, '$.%s')", strings.ReplaceAll(path, "'", ""))
}

// sqliteTimeLayout is fixed-width and always UTC, so the stored strings
// compare chronologically under SQLite's byte-wise collation.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// normalizeTimes rewrites time values as fixed-width UTC strings before a
// document is marshalled, matching how bindValue renders filter operands.
func normalizeTimes(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case time.Time:
			out[k] = t.UTC().Format(sqliteTimeLayout)
		case []time.Time:
			ss := make([]string, len(t))
			for i, tm := range t {
				ss[i] = tm.UTC().Format(sqliteTimeLayout)
			}
			out[k] = ss
		default:
			out[k] = v
		}
	}
	return out
}

// bindValue converts condition operands into SQL-comparable values.
// Times bind in the same fixed-width UTC layout they are stored in.
func bindValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(sqliteTimeLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(sqliteTimeLayout)
	}
	return v
}
