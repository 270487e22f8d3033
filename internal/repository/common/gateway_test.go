package common

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect_FilterOrderPaging(t *testing.T) {
	filter := Where(
		Eq("status", "active"),
		Search("50%_off", "title", "description"),
		IsNull("caregiver_id"),
	)
	opts := Options{
		OrderBy: []Order{Desc("created_at")},
		Limit:   10,
		Offset:  20,
		Count:   true,
	}

	query, countQuery, args, err := buildSelect(DefaultRelations(), "jobs", filter, opts)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT src.* FROM jobs src WHERE src.status = $1 AND (src.title ILIKE $2 OR src.description ILIKE $2) AND src.caregiver_id IS NULL ORDER BY src.created_at DESC LIMIT 10 OFFSET 20",
		query)
	assert.Equal(t,
		"SELECT COUNT(*) FROM jobs src WHERE src.status = $1 AND (src.title ILIKE $2 OR src.description ILIKE $2) AND src.caregiver_id IS NULL",
		countQuery)
	assert.Equal(t, []interface{}{"active", `%50\%\_off%`}, args)
}

func TestBuildSelect_EmptySearchSkipped(t *testing.T) {
	query, _, args, err := buildSelect(DefaultRelations(), "users", Where(Search("   ", "name", "email")), Options{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT src.* FROM users src", query)
	assert.Empty(t, args)
}

func TestBuildSelect_OrAndIn(t *testing.T) {
	filter := Where(
		Or(Eq("parent_id", "u1"), Eq("caregiver_id", "u1")),
		In("status", []string{"pending", "confirmed"}),
		Lte("start_time", "2026-01-01"),
		Gte("end_time", "2025-01-01"),
		Neq("status", "cancelled"),
	)
	query, _, args, err := buildSelect(DefaultRelations(), "bookings", filter, Options{Columns: []string{"id", "status"}})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT src.id, src.status FROM bookings src WHERE (src.parent_id = $1 OR src.caregiver_id = $2) AND src.status = ANY($3) AND src.start_time <= $4 AND src.end_time >= $5 AND src.status <> $6",
		query)
	require.Len(t, args, 6)
	assert.Equal(t, pq.Array([]string{"pending", "confirmed"}), args[2])
}

func TestBuildSelect_Embed(t *testing.T) {
	query, _, _, err := buildSelect(DefaultRelations(), "jobs", nil, Options{Embed: []string{"parent"}})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT src.*, (SELECT row_to_json(e) FROM (SELECT r.id, r.name, r.email, r.role FROM users r WHERE r.id = src.parent_id LIMIT 1) e) AS parent FROM jobs src",
		query)
}

func TestBuildSelect_UnknownRelation(t *testing.T) {
	_, _, _, err := buildSelect(DefaultRelations(), "jobs", nil, Options{Embed: []string{"reviews"}})
	require.Error(t, err)
	assert.True(t, IsRelationUnresolved(err))
}

func TestBuildSelect_RejectsBadIdentifiers(t *testing.T) {
	_, _, _, err := buildSelect(DefaultRelations(), "jobs; DROP TABLE users", nil, Options{})
	assert.Error(t, err)

	_, _, _, err = buildSelect(DefaultRelations(), "jobs", Where(Eq("status = 'x' OR 1=1 --", 1)), Options{})
	assert.Error(t, err)

	_, _, _, err = buildSelect(DefaultRelations(), "jobs", nil, Options{OrderBy: []Order{Asc("created_at DESC")}})
	assert.Error(t, err)
}

func TestBuildInsert_SortedColumns(t *testing.T) {
	query, args, err := buildInsert("audit_logs", map[string]interface{}{
		"target_id": "J1",
		"action":    "APPROVE_JOB",
		"admin_id":  "A1",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO audit_logs (action, admin_id, target_id) VALUES ($1, $2, $3) RETURNING *", query)
	assert.Equal(t, []interface{}{"APPROVE_JOB", "A1", "J1"}, args)
}

func TestBuildInsert_Upsert(t *testing.T) {
	query, _, err := buildInsert("caregiver_profiles", map[string]interface{}{
		"user_id": "U1",
		"bio":     "hi",
	}, "user_id")
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO caregiver_profiles (bio, user_id) VALUES ($1, $2) ON CONFLICT (user_id) DO UPDATE SET bio = EXCLUDED.bio RETURNING *",
		query)
}

func TestBuildUpdate_CompareAndSwap(t *testing.T) {
	query, args, err := buildUpdate("jobs", Where(Eq("id", "J1"), Eq("status", "active")), map[string]interface{}{
		"status":     "filled",
		"updated_at": "now",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE jobs AS src SET status = $1, updated_at = $2 WHERE src.id = $3 AND src.status = $4 RETURNING *",
		query)
	assert.Equal(t, []interface{}{"filled", "now", "J1", "active"}, args)
}

func TestBuildUpdate_RequiresFilterAndPatch(t *testing.T) {
	_, _, err := buildUpdate("jobs", nil, map[string]interface{}{"status": "filled"})
	assert.Error(t, err)

	_, _, err = buildUpdate("jobs", Where(Eq("id", "J1")), nil)
	assert.Error(t, err)
}

func TestBuildDelete(t *testing.T) {
	query, args, err := buildDelete("payment_proofs", Where(Eq("id", "P1"), Eq("booking_id", "B1")))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM payment_proofs AS src WHERE src.id = $1 AND src.booking_id = $2", query)
	assert.Len(t, args, 2)

	_, _, err = buildDelete("payment_proofs", nil)
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, EscapeLike(`a\b%c_d`))
}

func TestClassify(t *testing.T) {
	assert.True(t, IsNoRows(classify(sql.ErrNoRows, "select", "jobs", false)))
	assert.True(t, IsUniqueViolation(classify(&pq.Error{Code: "23505"}, "insert", "users", false)))
	assert.True(t, HasCode(classify(&pq.Error{Code: "23503"}, "insert", "jobs", false), CodeForeignKey))
	assert.True(t, IsRelationUnresolved(classify(&pq.Error{Code: "42P01"}, "select", "jobs", true)))
	assert.True(t, HasCode(classify(&pq.Error{Code: "42P01"}, "select", "jobs", false), CodeUnexpected))
	assert.True(t, HasCode(classify(errors.New("conn reset"), "select", "jobs", false), CodeUnexpected))
	assert.Nil(t, classify(nil, "select", "jobs", false))

	wrapped := fmt.Errorf("repo: %w", classify(sql.ErrNoRows, "select", "jobs", false))
	assert.True(t, IsNoRows(wrapped))
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, NewPage(0, 0, 20))
	assert.Equal(t, Page{Page: 1, Limit: 10}, NewPage(-3, -1, 10))
	assert.Equal(t, Page{Page: 2, Limit: 100}, NewPage(2, 1000, 10))
	assert.Equal(t, 25, NewPage(2, 25, 10).Offset())

	huge := NewPage(92233720368547759, 100, 20)
	assert.Equal(t, MaxPage, huge.Page)
	assert.Equal(t, (MaxPage-1)*100, huge.Offset())

	res := Result[int](nil, 0, NewPage(1, 5, 10))
	assert.NotNil(t, res.Items)
	assert.Equal(t, 5, res.Limit)
}
