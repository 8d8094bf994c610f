package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryValidate(t *testing.T) {
	valid := Query{PrimaryTable: "reports", PrimaryColumn: "customer_id", TargetColumn: "raw_json"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Query{}.Validate())
	assert.Error(t, Query{PrimaryTable: "reports", PrimaryColumn: "customer_id"}.Validate())

	join := valid
	join.UseJoin = true
	assert.Error(t, join.Validate())
	join.SecondaryTable = "payloads"
	join.SecondaryColumn = "cust_id"
	assert.NoError(t, join.Validate())
}

func TestCountSQL_SingleTable(t *testing.T) {
	b := builder{q: Query{PrimaryTable: "reports", PrimaryColumn: "customer_id", TargetColumn: "raw_json"}}
	sql, args := b.countSQL()

	assert.Equal(t, `SELECT COUNT(*) FROM "reports" t1`, sql)
	assert.Empty(t, args)
}

func TestCountSQL_FilterAndDateRange(t *testing.T) {
	b := builder{q: Query{
		PrimaryTable: "reports", PrimaryColumn: "customer_id", TargetColumn: "raw_json",
		FilterColumn: "product", FilterValue: "gold",
		DateColumn: "created_at", StartDate: "2024-01-01", EndDate: "2024-01-31",
	}}
	sql, args := b.countSQL()

	assert.Contains(t, sql, `t1."product" = $1`)
	assert.Contains(t, sql, `t1."created_at" BETWEEN $2 AND $3`)
	// Date bounds expand to full-day timestamps, values stay bound.
	assert.Equal(t, []any{"gold", "2024-01-01 00:00:00", "2024-01-31 23:59:59"}, args)
	assert.NotContains(t, sql, "gold")
}

func TestPageSQL_SingleTable(t *testing.T) {
	b := builder{q: Query{
		PrimaryTable: "reports", PrimaryColumn: "customer_id", TargetColumn: "raw_json",
		DateColumn: "created_at",
	}}
	sql, args := b.pageSQL(40, 20)

	assert.Contains(t, sql, `t1."customer_id" AS customer_id`)
	assert.Contains(t, sql, `t1."raw_json" AS raw_data`)
	assert.Contains(t, sql, `t1."created_at"::text AS record_date`)
	// Unconfigured override columns select empty literals.
	assert.Contains(t, sql, `'' AS db_pan`)
	assert.Contains(t, sql, `'' AS db_mobile`)
	assert.Contains(t, sql, `ORDER BY t1."customer_id" LIMIT $1 OFFSET $2`)
	assert.Equal(t, []any{20, 40}, args)
}

func TestPageSQL_JoinMode(t *testing.T) {
	b := builder{
		q: Query{
			PrimaryTable: "customers", PrimaryColumn: "id", TargetColumn: "raw_json",
			SecondaryTable: "reports", SecondaryColumn: "customer_id", UseJoin: true,
			PANColumn: "pan", MobileColumn: "mobile",
		},
		primaryCols: map[string]struct{}{"id": {}, "pan": {}},
	}
	sql, args := b.pageSQL(0, 100)

	assert.Contains(t, sql, `FROM "customers" t1 JOIN "reports" t2 ON t1."id" = t2."customer_id"`)
	// Payload lives on the secondary table in join mode.
	assert.Contains(t, sql, `t2."raw_json" AS raw_data`)
	// Override columns alias by introspection: pan is on t1, mobile is not.
	assert.Contains(t, sql, `t1."pan"::text AS db_pan`)
	assert.Contains(t, sql, `t2."mobile"::text AS db_mobile`)
	assert.Equal(t, []any{100, 0}, args)
}

func TestPageSQL_PlaceholdersAfterWhere(t *testing.T) {
	b := builder{q: Query{
		PrimaryTable: "reports", PrimaryColumn: "customer_id", TargetColumn: "raw_json",
		FilterColumn: "product", FilterValue: "gold",
	}}
	sql, args := b.pageSQL(10, 5)

	assert.Contains(t, sql, `t1."product" = $1`)
	assert.Contains(t, sql, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{"gold", 5, 10}, args)
}

func TestQuoteIdent_BlocksInjection(t *testing.T) {
	b := builder{q: Query{
		PrimaryTable: `reports"; DROP TABLE leads; --`, PrimaryColumn: "customer_id", TargetColumn: "raw_json",
	}}
	sql, _ := b.countSQL()

	require.Contains(t, sql, `"reports""; DROP TABLE leads; --"`)
}
