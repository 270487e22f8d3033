package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// validIdent не пропускает в SQL ничего, кроме простых имён таблиц и колонок.
func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return &Error{Code: CodeUnexpected, Message: fmt.Sprintf("invalid identifier %q", name)}
	}
	return nil
}

// binder накапливает позиционные аргументы запроса.
type binder struct {
	args []interface{}
}

func (b *binder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// Condition одно условие WHERE. Пустая строка означает, что условие не накладывается.
type Condition interface {
	sql(b *binder) (string, error)
}

type compareCond struct {
	column string
	op     string
	value  interface{}
}

func (c compareCond) sql(b *binder) (string, error) {
	if err := validIdent(c.column); err != nil {
		return "", err
	}
	return fmt.Sprintf("src.%s %s %s", c.column, c.op, b.bind(c.value)), nil
}

// Eq column = value.
func Eq(column string, value interface{}) Condition {
	return compareCond{column: column, op: "=", value: value}
}

// Neq column <> value.
func Neq(column string, value interface{}) Condition {
	return compareCond{column: column, op: "<>", value: value}
}

// Lte column <= value.
func Lte(column string, value interface{}) Condition {
	return compareCond{column: column, op: "<=", value: value}
}

// Gte column >= value.
func Gte(column string, value interface{}) Condition {
	return compareCond{column: column, op: ">=", value: value}
}

type nullCond struct {
	column string
	not    bool
}

func (c nullCond) sql(_ *binder) (string, error) {
	if err := validIdent(c.column); err != nil {
		return "", err
	}
	if c.not {
		return fmt.Sprintf("src.%s IS NOT NULL", c.column), nil
	}
	return fmt.Sprintf("src.%s IS NULL", c.column), nil
}

// IsNull column IS NULL.
func IsNull(column string) Condition {
	return nullCond{column: column}
}

// NotNull column IS NOT NULL.
func NotNull(column string) Condition {
	return nullCond{column: column, not: true}
}

type inCond struct {
	column string
	values interface{}
}

func (c inCond) sql(b *binder) (string, error) {
	if err := validIdent(c.column); err != nil {
		return "", err
	}
	return fmt.Sprintf("src.%s = ANY(%s)", c.column, b.bind(pq.Array(c.values))), nil
}

// In column = ANY(values). values должен быть срезом.
func In(column string, values interface{}) Condition {
	return inCond{column: column, values: values}
}

type searchCond struct {
	term    string
	columns []string
}

func (c searchCond) sql(b *binder) (string, error) {
	term := strings.TrimSpace(c.term)
	if term == "" || len(c.columns) == 0 {
		return "", nil
	}
	placeholder := b.bind("%" + EscapeLike(term) + "%")
	parts := make([]string, 0, len(c.columns))
	for _, col := range c.columns {
		if err := validIdent(col); err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("src.%s ILIKE %s", col, placeholder))
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

// Search ищет подстроку без учёта регистра хотя бы в одной из колонок.
func Search(term string, columns ...string) Condition {
	return searchCond{term: term, columns: columns}
}

// EscapeLike экранирует спецсимволы шаблона LIKE.
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

type orCond struct {
	conds []Condition
}

func (c orCond) sql(b *binder) (string, error) {
	parts := make([]string, 0, len(c.conds))
	for _, cond := range c.conds {
		part, err := cond.sql(b)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

// Or объединяет условия через OR.
func Or(conds ...Condition) Condition {
	return orCond{conds: conds}
}

// Filter набор условий, объединяемых через AND.
type Filter []Condition

// Where собирает фильтр из условий.
func Where(conds ...Condition) Filter {
	return Filter(conds)
}

// And возвращает копию фильтра с дополнительными условиями.
func (f Filter) And(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

// where строит " WHERE ..." или пустую строку.
func (f Filter) where(b *binder) (string, error) {
	parts := make([]string, 0, len(f))
	for _, cond := range f {
		if cond == nil {
			continue
		}
		part, err := cond.sql(b)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}
