package postgresql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// Table names a tenant-partitioned table.
type Table string

const (
	TableUsers             Table = "users"
	TableEmployees         Table = "employees"
	TableClockEvents       Table = "clock_events"
	TableAttendanceRecords Table = "attendance_records"
	TableLeaveTypes        Table = "leave_types"
	TableLeaveBalances     Table = "leave_balances"
	TableLeaveApplications Table = "leave_applications"
)

const tenantColumn = "tenant_id"

var scopedTables = map[Table]struct{}{
	TableUsers:             {},
	TableEmployees:         {},
	TableClockEvents:       {},
	TableAttendanceRecords: {},
	TableLeaveTypes:        {},
	TableLeaveBalances:     {},
	TableLeaveApplications: {},
}

var (
	ErrUnknownTable       = errors.New("table is not tenant-scoped")
	ErrInvalidColumn      = errors.New("invalid column identifier")
	ErrTenantColumnInUse  = errors.New("tenant_id is managed by the scope")
	ErrUnfilteredWrite    = errors.New("update and delete require at least one condition")
	ErrEmptyValues        = errors.New("no values to write")
	ErrInvalidComparison  = errors.New("invalid comparison operator")
	columnIdentifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*(::[a-z]+)?$`)
)

// Cond is a single "column op value" predicate. Conditions are ANDed.
type Cond struct {
	Column string
	Op     string
	Value  any
}

func Eq(column string, value any) Cond  { return Cond{Column: column, Op: "=", Value: value} }
func Ne(column string, value any) Cond  { return Cond{Column: column, Op: "<>", Value: value} }
func Gte(column string, value any) Cond { return Cond{Column: column, Op: ">=", Value: value} }
func Lt(column string, value any) Cond  { return Cond{Column: column, Op: "<", Value: value} }
func Lte(column string, value any) Cond { return Cond{Column: column, Op: "<=", Value: value} }

var allowedOps = map[string]struct{}{"=": {}, "<>": {}, ">=": {}, "<": {}, "<=": {}}

// Values maps column names to values for inserts and updates.
type Values map[string]any

// Inc in an update adds By to the column's current value.
type Inc struct {
	By any
}

type queryOptions struct {
	orderBy []string
	limit   int
}

type QueryOption func(*queryOptions)

func OrderBy(column string, desc bool) QueryOption {
	return func(o *queryOptions) {
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		o.orderBy = append(o.orderBy, column+" "+dir)
	}
}

func Limit(n int) QueryOption {
	return func(o *queryOptions) {
		o.limit = n
	}
}

// Scope runs queries against tenant tables for exactly one tenant. Every read,
// update and delete is filtered by tenant_id; every insert has tenant_id set
// to the scope's tenant whatever the caller passed.
type Scope struct {
	q        database.Querier
	tenantID string
}

// NewScope binds q to tenantID.
func NewScope(q database.Querier, tenantID string) (*Scope, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, session.ErrNoTenantContext
	}
	return &Scope{q: q, tenantID: tenantID}, nil
}

// ScopeFromContext binds the querier for ctx to the tenant of the session in ctx.
func ScopeFromContext(ctx context.Context, db *database.DB) (*Scope, error) {
	s, ok := session.FromContext(ctx)
	if !ok {
		return nil, session.ErrNoTenantContext
	}
	return NewScope(GetQuerier(ctx, db), s.TenantID)
}

func (s *Scope) TenantID() string {
	return s.tenantID
}

func (s *Scope) Select(ctx context.Context, table Table, columns []string, where []Cond, opts ...QueryOption) (pgx.Rows, error) {
	sql, args, err := s.buildSelect(table, columns, where, opts)
	if err != nil {
		return nil, err
	}
	return s.q.Query(ctx, sql, args...)
}

func (s *Scope) SelectOne(ctx context.Context, table Table, columns []string, where []Cond, opts ...QueryOption) pgx.Row {
	sql, args, err := s.buildSelect(table, columns, where, append(opts, Limit(1)))
	if err != nil {
		return errRow{err: err}
	}
	return s.q.QueryRow(ctx, sql, args...)
}

func (s *Scope) Count(ctx context.Context, table Table, where []Cond) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	args := []any{s.tenantID}
	clause, args, err := whereClause(where, args)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, clause), args...).Scan(&n)
	return n, err
}

func (s *Scope) Insert(ctx context.Context, table Table, values Values, returning ...string) pgx.Row {
	if err := checkTable(table); err != nil {
		return errRow{err: err}
	}
	if len(values) == 0 {
		return errRow{err: ErrEmptyValues}
	}

	columns := make([]string, 0, len(values)+1)
	for _, col := range sortedKeys(values) {
		if col == tenantColumn {
			// overridden below
			continue
		}
		if !isColumn(col) {
			return errRow{err: fmt.Errorf("%w: %q", ErrInvalidColumn, col)}
		}
		columns = append(columns, col)
	}

	args := make([]any, 0, len(columns)+1)
	placeholders := make([]string, 0, len(columns)+1)
	for _, col := range columns {
		args = append(args, values[col])
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	columns = append(columns, tenantColumn)
	args = append(args, s.tenantID)
	placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if len(returning) > 0 {
		if err := checkColumns(returning); err != nil {
			return errRow{err: err}
		}
		sql += " RETURNING " + strings.Join(returning, ", ")
		return s.q.QueryRow(ctx, sql, args...)
	}

	if _, err := s.q.Exec(ctx, sql, args...); err != nil {
		return errRow{err: err}
	}
	return errRow{}
}

func (s *Scope) Update(ctx context.Context, table Table, set Values, where []Cond) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if len(set) == 0 {
		return 0, ErrEmptyValues
	}
	if len(where) == 0 {
		return 0, ErrUnfilteredWrite
	}

	args := []any{s.tenantID}
	assignments := make([]string, 0, len(set))
	for _, col := range sortedKeys(set) {
		if col == tenantColumn {
			return 0, ErrTenantColumnInUse
		}
		if !isColumn(col) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
		if inc, ok := set[col].(Inc); ok {
			args = append(args, inc.By)
			assignments = append(assignments, fmt.Sprintf("%s = %s + $%d", col, col, len(args)))
			continue
		}
		args = append(args, set[col])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	clause, args, err := whereClause(where, args)
	if err != nil {
		return 0, err
	}
	tag, err := s.q.Exec(ctx, fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(assignments, ", "), clause), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Scope) Delete(ctx context.Context, table Table, where []Cond) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if len(where) == 0 {
		return 0, ErrUnfilteredWrite
	}
	clause, args, err := whereClause(where, []any{s.tenantID})
	if err != nil {
		return 0, err
	}
	tag, err := s.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", table, clause), args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Scope) buildSelect(table Table, columns []string, where []Cond, opts []QueryOption) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("%w: no columns selected", ErrInvalidColumn)
	}
	if err := checkColumns(columns); err != nil {
		return "", nil, err
	}

	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	clause, args, err := whereClause(where, []any{s.tenantID})
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), table, clause)
	if len(o.orderBy) > 0 {
		for _, ob := range o.orderBy {
			col, _, _ := strings.Cut(ob, " ")
			if !isColumn(col) {
				return "", nil, fmt.Errorf("%w: %q", ErrInvalidColumn, col)
			}
		}
		b.WriteString(" ORDER BY " + strings.Join(o.orderBy, ", "))
	}
	if o.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", o.limit)
	}
	return b.String(), args, nil
}

// whereClause renders "tenant_id = $1 AND ..." assuming args[0] is the tenant.
func whereClause(where []Cond, args []any) (string, []any, error) {
	parts := []string{tenantColumn + " = $1"}
	for _, c := range where {
		if c.Column == tenantColumn {
			return "", nil, ErrTenantColumnInUse
		}
		if !isColumn(c.Column) {
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidColumn, c.Column)
		}
		if _, ok := allowedOps[c.Op]; !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidComparison, c.Op)
		}
		if c.Value == nil && c.Op == "=" {
			parts = append(parts, c.Column+" IS NULL")
			continue
		}
		args = append(args, c.Value)
		parts = append(parts, fmt.Sprintf("%s %s $%d", c.Column, c.Op, len(args)))
	}
	return strings.Join(parts, " AND "), args, nil
}

func checkTable(table Table) error {
	if _, ok := scopedTables[table]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, string(table))
	}
	return nil
}

func checkColumns(columns []string) error {
	for _, col := range columns {
		if !isColumn(col) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
	}
	return nil
}

func isColumn(col string) bool {
	return columnIdentifierRegex.MatchString(col)
}

func sortedKeys(v Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// errRow defers an error to Scan so callers keep the QueryRow shape.
type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	return r.err
}
