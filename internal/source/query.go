package source

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Query describes the relational shape of one job's data source: either a
// single table or a two-table join, with the columns carrying the payload
// and the optional DB-sourced overrides.
type Query struct {
	PrimaryTable    string `json:"primary_table" mapstructure:"primary_table"`
	PrimaryColumn   string `json:"primary_column" mapstructure:"primary_column"`
	SecondaryTable  string `json:"secondary_table,omitempty" mapstructure:"secondary_table"`
	SecondaryColumn string `json:"secondary_column,omitempty" mapstructure:"secondary_column"`
	UseJoin         bool   `json:"use_join" mapstructure:"use_join"`

	// TargetColumn holds the raw JSON payload, or the URL suffix in
	// remote-fetch mode.
	TargetColumn string `json:"target_column" mapstructure:"target_column"`
	DateColumn   string `json:"date_column,omitempty" mapstructure:"date_column"`
	PANColumn    string `json:"pan_column,omitempty" mapstructure:"pan_column"`
	MobileColumn string `json:"mobile_column,omitempty" mapstructure:"mobile_column"`

	FilterColumn string `json:"filter_column,omitempty" mapstructure:"filter_column"`
	FilterValue  string `json:"filter_value,omitempty" mapstructure:"filter_value"`
	StartDate    string `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate      string `json:"end_date,omitempty" mapstructure:"end_date"`
}

// Validate checks the fields every job needs. A bad query is a fatal job
// configuration error.
func (q Query) Validate() error {
	if q.PrimaryTable == "" || q.PrimaryColumn == "" || q.TargetColumn == "" {
		return eris.New("source: primary_table, primary_column and target_column are required")
	}
	if q.UseJoin && (q.SecondaryTable == "" || q.SecondaryColumn == "") {
		return eris.New("source: join mode requires secondary_table and secondary_column")
	}
	return nil
}

// builder renders the count and page statements. Identifiers are sanitized
// with pgx quoting and condition values are bound, never interpolated.
type builder struct {
	q Query
	// primaryCols are the introspected columns of the primary table, used
	// to alias override columns to the table that actually has them.
	primaryCols map[string]struct{}
}

func (b *builder) alias(column string) string {
	if !b.q.UseJoin {
		return "t1." + quoteIdent(column)
	}
	if _, ok := b.primaryCols[column]; ok {
		return "t1." + quoteIdent(column)
	}
	return "t2." + quoteIdent(column)
}

func (b *builder) fromClause() string {
	if b.q.UseJoin {
		return fmt.Sprintf("FROM %s t1 JOIN %s t2 ON t1.%s = t2.%s",
			quoteIdent(b.q.PrimaryTable), quoteIdent(b.q.SecondaryTable),
			quoteIdent(b.q.PrimaryColumn), quoteIdent(b.q.SecondaryColumn))
	}
	return fmt.Sprintf("FROM %s t1", quoteIdent(b.q.PrimaryTable))
}

// whereClause renders the optional filter and date-range conditions,
// returning the clause and its bound arguments.
func (b *builder) whereClause() (string, []any) {
	var conds []string
	var args []any
	next := func() string { return fmt.Sprintf("$%d", len(args)) }

	if b.q.FilterColumn != "" && b.q.FilterValue != "" {
		args = append(args, b.q.FilterValue)
		conds = append(conds, fmt.Sprintf("%s = %s", b.alias(b.q.FilterColumn), next()))
	}
	if b.q.DateColumn != "" && b.q.StartDate != "" && b.q.EndDate != "" {
		col := b.alias(b.q.DateColumn)
		args = append(args, b.q.StartDate+" 00:00:00")
		first := next()
		args = append(args, b.q.EndDate+" 23:59:59")
		conds = append(conds, fmt.Sprintf("%s BETWEEN %s AND %s", col, first, next()))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (b *builder) countSQL() (string, []any) {
	where, args := b.whereClause()
	return strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) %s %s", b.fromClause(), where)), args
}

func (b *builder) pageSQL(offset, limit int) (string, []any) {
	selects := []string{
		fmt.Sprintf("t1.%s AS customer_id", quoteIdent(b.q.PrimaryColumn)),
		b.targetAlias() + " AS raw_data",
		optionalSelect(b, b.q.DateColumn, "record_date"),
		optionalSelect(b, b.q.PANColumn, "db_pan"),
		optionalSelect(b, b.q.MobileColumn, "db_mobile"),
	}

	where, args := b.whereClause()
	args = append(args, limit, offset)
	sql := fmt.Sprintf("SELECT %s %s %s ORDER BY t1.%s LIMIT $%d OFFSET $%d",
		strings.Join(selects, ", "), b.fromClause(), where,
		quoteIdent(b.q.PrimaryColumn), len(args)-1, len(args))
	return strings.Join(strings.Fields(sql), " "), args
}

// targetAlias places the payload column on t2 in join mode, matching the
// join shape where the report body lives in the secondary table.
func (b *builder) targetAlias() string {
	if b.q.UseJoin {
		return "t2." + quoteIdent(b.q.TargetColumn)
	}
	return "t1." + quoteIdent(b.q.TargetColumn)
}

// optionalSelect selects the column under the given name, or an empty
// string literal when the column is not configured.
func optionalSelect(b *builder, column, as string) string {
	if column == "" {
		return "'' AS " + as
	}
	return fmt.Sprintf("%s::text AS %s", b.alias(column), as)
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
