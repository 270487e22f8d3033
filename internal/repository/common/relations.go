package common

// Relation связь "один к одному" от строки исходной таблицы к строке другой таблицы.
type Relation struct {
	// Name имя поля, под которым связь попадает в результат.
	Name          string
	Table         string
	LocalColumn   string
	ForeignColumn string
	// Columns колонки связанной строки. Пустой список означает все колонки.
	Columns []string
}

// Relations реестр связей по исходным таблицам.
type Relations map[string]map[string]Relation

// Register добавляет связь для исходной таблицы.
func (r Relations) Register(table string, rel Relation) Relations {
	if r[table] == nil {
		r[table] = make(map[string]Relation)
	}
	r[table][rel.Name] = rel
	return r
}

// Lookup ищет связь по исходной таблице и имени.
func (r Relations) Lookup(table, name string) (Relation, bool) {
	rel, ok := r[table][name]
	return rel, ok
}

var userSummaryColumns = []string{"id", "name", "email", "role"}

// userRelation связь с таблицей users по внешнему ключу column.
func userRelation(name, column string) Relation {
	return Relation{
		Name:          name,
		Table:         "users",
		LocalColumn:   column,
		ForeignColumn: "id",
		Columns:       userSummaryColumns,
	}
}

// DefaultRelations связи, которые используют репозитории.
func DefaultRelations() Relations {
	r := Relations{}
	r.Register("jobs", userRelation("parent", "parent_id"))
	r.Register("jobs", userRelation("caregiver", "caregiver_id"))
	r.Register("bookings", userRelation("parent", "parent_id"))
	r.Register("bookings", userRelation("caregiver", "caregiver_id"))
	r.Register("payments", userRelation("parent", "parent_id"))
	r.Register("payments", userRelation("caregiver", "caregiver_id"))
	r.Register("user_reports", userRelation("reporter", "reporter_id"))
	r.Register("user_reports", userRelation("reported_user", "reported_user_id"))
	r.Register("users", Relation{
		Name:          "caregiver_profile",
		Table:         "caregiver_profiles",
		LocalColumn:   "id",
		ForeignColumn: "user_id",
	})
	return r
}
