package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-system/pkg/types"
)

var testMap = map[string]string{
	"status":    "le.status",
	"from_date": "le.from_date",
}

func TestApplyListParams(t *testing.T) {
	filter := types.Filter{
		Filter:         map[string]interface{}{"status": "PENDING,APPROVED", "unknown": "x"},
		Sort:           map[string]string{"from_date": "desc", "hack; DROP": "asc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}
	b := sq.Select("le.id").From("leave_entries le").PlaceholderFormat(sq.Dollar)
	query, args, err := ApplyListParams(b, filter, testMap, "le.id DESC").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT le.id FROM leave_entries le WHERE le.status IN ($1,$2) ORDER BY le.from_date DESC LIMIT 10 OFFSET 20", query)
	assert.Equal(t, []interface{}{"PENDING", "APPROVED"}, args)
}

func TestApplySortDefault(t *testing.T) {
	b := sq.Select("id").From("t")
	query, _, err := ApplySort(b, types.Filter{}, testMap, "id DESC").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t ORDER BY id DESC", query)
}

func TestApplySearch(t *testing.T) {
	b := sq.Select("id").From("employees e").PlaceholderFormat(sq.Dollar)
	query, args, err := ApplySearch(b, "ivan", "e.code", "e.full_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM employees e WHERE (e.code ILIKE $1 OR e.full_name ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%ivan%", "%ivan%"}, args)

	query, _, err = ApplySearch(b, "").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM employees e", query)
}

func TestApplyPaginationDisabled(t *testing.T) {
	b := sq.Select("id").From("t")
	query, _, err := ApplyPagination(b, types.Filter{Limit: 10, WithPagination: false}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t", query)
}
