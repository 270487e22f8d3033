package common

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Order сортировка по колонке.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Options параметры выборки.
type Options struct {
	Columns []string
	OrderBy []Order
	Offset  int
	Limit   int
	// Count дополнительно считает точное количество строк под фильтром.
	Count bool
	// Embed имена связей из реестра, встраиваемых в каждую строку.
	Embed []string
}

// Gateway выполняет запросы к именованным таблицам через sqlx.
type Gateway struct {
	ext       sqlx.ExtContext
	relations Relations
}

// NewGateway создаёт шлюз поверх пула соединений.
func NewGateway(db *sqlx.DB, relations Relations) *Gateway {
	if relations == nil {
		relations = DefaultRelations()
	}
	return &Gateway{ext: db, relations: relations}
}

// WithTx возвращает копию шлюза, работающую внутри транзакции.
func (g *Gateway) WithTx(tx *sqlx.Tx) *Gateway {
	return &Gateway{ext: tx, relations: g.relations}
}

// Find возвращает строки под фильтром и общее количество (если запрошено Count).
// Пустой результат не считается ошибкой.
func Find[T any](ctx context.Context, g *Gateway, table string, filter Filter, opts Options) ([]T, int, error) {
	query, countQuery, args, err := buildSelect(g.relations, table, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	if err := sqlx.SelectContext(ctx, g.ext, &items, query, args...); err != nil {
		return nil, 0, classify(err, "select", table, len(opts.Embed) > 0)
	}

	total := len(items)
	if opts.Count {
		if err := sqlx.GetContext(ctx, g.ext, &total, countQuery, args...); err != nil {
			return nil, 0, classify(err, "count", table, false)
		}
	}

	return items, total, nil
}

// FindOne возвращает единственную строку или ошибку с кодом CodeNoRows.
func FindOne[T any](ctx context.Context, g *Gateway, table string, filter Filter, opts Options) (*T, error) {
	opts.Limit = 1
	opts.Offset = 0
	opts.Count = false
	query, _, args, err := buildSelect(g.relations, table, filter, opts)
	if err != nil {
		return nil, err
	}

	var item T
	if err := sqlx.GetContext(ctx, g.ext, &item, query, args...); err != nil {
		return nil, classify(err, "select one", table, len(opts.Embed) > 0)
	}
	return &item, nil
}

// Insert вставляет строку и возвращает её в сохранённом виде.
func Insert[T any](ctx context.Context, g *Gateway, table string, values map[string]interface{}) (*T, error) {
	query, args, err := buildInsert(table, values, "")
	if err != nil {
		return nil, err
	}

	var item T
	if err := sqlx.GetContext(ctx, g.ext, &item, query, args...); err != nil {
		return nil, classify(err, "insert", table, false)
	}
	return &item, nil
}

// Upsert вставляет строку, а при конфликте по conflictColumn обновляет остальные колонки.
func Upsert[T any](ctx context.Context, g *Gateway, table, conflictColumn string, values map[string]interface{}) (*T, error) {
	if err := validIdent(conflictColumn); err != nil {
		return nil, err
	}
	query, args, err := buildInsert(table, values, conflictColumn)
	if err != nil {
		return nil, err
	}

	var item T
	if err := sqlx.GetContext(ctx, g.ext, &item, query, args...); err != nil {
		return nil, classify(err, "upsert", table, false)
	}
	return &item, nil
}

// Update применяет patch к строке под фильтром и возвращает её.
// Если ни одна строка не подошла, возвращается CodeNoRows.
func Update[T any](ctx context.Context, g *Gateway, table string, filter Filter, patch map[string]interface{}) (*T, error) {
	query, args, err := buildUpdate(table, filter, patch)
	if err != nil {
		return nil, err
	}

	var item T
	if err := sqlx.GetContext(ctx, g.ext, &item, query, args...); err != nil {
		return nil, classify(err, "update", table, false)
	}
	return &item, nil
}

// UpdateAll применяет patch ко всем строкам под фильтром.
func UpdateAll[T any](ctx context.Context, g *Gateway, table string, filter Filter, patch map[string]interface{}) ([]T, error) {
	query, args, err := buildUpdate(table, filter, patch)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if err := sqlx.SelectContext(ctx, g.ext, &items, query, args...); err != nil {
		return nil, classify(err, "update", table, false)
	}
	return items, nil
}

// Delete удаляет строки под фильтром и возвращает их количество.
func Delete(ctx context.Context, g *Gateway, table string, filter Filter) (int64, error) {
	query, args, err := buildDelete(table, filter)
	if err != nil {
		return 0, err
	}

	res, err := g.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err, "delete", table, false)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err, "delete", table, false)
	}
	return affected, nil
}

func buildSelect(relations Relations, table string, filter Filter, opts Options) (string, string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", "", nil, err
	}

	selectList := make([]string, 0, len(opts.Columns)+len(opts.Embed))
	if len(opts.Columns) == 0 {
		selectList = append(selectList, "src.*")
	}
	for _, col := range opts.Columns {
		if err := validIdent(col); err != nil {
			return "", "", nil, err
		}
		selectList = append(selectList, "src."+col)
	}

	for _, name := range opts.Embed {
		rel, ok := relations.Lookup(table, name)
		if !ok {
			return "", "", nil, &Error{
				Code:    CodeRelationUnresolved,
				Message: fmt.Sprintf("relation %q is not registered for %s", name, table),
			}
		}
		sub, err := embedSQL(rel)
		if err != nil {
			return "", "", nil, err
		}
		selectList = append(selectList, sub)
	}

	b := &binder{}
	where, err := filter.where(b)
	if err != nil {
		return "", "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectList, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)
	sb.WriteString(" src")
	sb.WriteString(where)

	if len(opts.OrderBy) > 0 {
		parts := make([]string, 0, len(opts.OrderBy))
		for _, o := range opts.OrderBy {
			if err := validIdent(o.Column); err != nil {
				return "", "", nil, err
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, fmt.Sprintf("src.%s %s", o.Column, dir))
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", opts.Offset)
	}

	countQuery := "SELECT COUNT(*) FROM " + table + " src" + where
	return sb.String(), countQuery, b.args, nil
}

// embedSQL строит подзапрос, который возвращает связанную строку как json.
func embedSQL(rel Relation) (string, error) {
	for _, ident := range []string{rel.Name, rel.Table, rel.LocalColumn, rel.ForeignColumn} {
		if err := validIdent(ident); err != nil {
			return "", err
		}
	}

	cols := "r.*"
	if len(rel.Columns) > 0 {
		parts := make([]string, 0, len(rel.Columns))
		for _, col := range rel.Columns {
			if err := validIdent(col); err != nil {
				return "", err
			}
			parts = append(parts, "r."+col)
		}
		cols = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(
		"(SELECT row_to_json(e) FROM (SELECT %s FROM %s r WHERE r.%s = src.%s LIMIT 1) e) AS %s",
		cols, rel.Table, rel.ForeignColumn, rel.LocalColumn, rel.Name,
	), nil
}

// sortedKeys делает порядок колонок детерминированным.
func sortedKeys(values map[string]interface{}) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildInsert(table string, values map[string]interface{}, conflictColumn string) (string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, &Error{Code: CodeUnexpected, Message: "insert into " + table + " without values"}
	}

	b := &binder{}
	keys := sortedKeys(values)
	placeholders := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := validIdent(k); err != nil {
			return "", nil, err
		}
		placeholders = append(placeholders, b.bind(values[k]))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(keys, ", "), strings.Join(placeholders, ", "))

	if conflictColumn != "" {
		sets := make([]string, 0, len(keys))
		for _, k := range keys {
			if k == conflictColumn {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", k, k))
		}
		if len(sets) == 0 {
			query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", conflictColumn)
		} else {
			query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", conflictColumn, strings.Join(sets, ", "))
		}
	}

	return query + " RETURNING *", b.args, nil
}

func buildUpdate(table string, filter Filter, patch map[string]interface{}) (string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", nil, err
	}
	if len(patch) == 0 {
		return "", nil, &Error{Code: CodeUnexpected, Message: "update " + table + " without patch"}
	}

	b := &binder{}
	keys := sortedKeys(patch)
	sets := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := validIdent(k); err != nil {
			return "", nil, err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", k, b.bind(patch[k])))
	}

	where, err := filter.where(b)
	if err != nil {
		return "", nil, err
	}
	if where == "" {
		return "", nil, &Error{Code: CodeUnexpected, Message: "update " + table + " without filter"}
	}

	return fmt.Sprintf("UPDATE %s AS src SET %s%s RETURNING *", table, strings.Join(sets, ", "), where), b.args, nil
}

func buildDelete(table string, filter Filter) (string, []interface{}, error) {
	if err := validIdent(table); err != nil {
		return "", nil, err
	}

	b := &binder{}
	where, err := filter.where(b)
	if err != nil {
		return "", nil, err
	}
	if where == "" {
		return "", nil, &Error{Code: CodeUnexpected, Message: "delete from " + table + " without filter"}
	}

	return fmt.Sprintf("DELETE FROM %s AS src%s", table, where), b.args, nil
}
