package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/registrar/internal/db"
)

// Repositories holds all the repository instances. Repositories carry no
// connection: every method receives the unit of work (a *sql.DB or *sql.Tx)
// from the caller.
type Repositories struct {
	CollegeRepository *CollegeRepository
	ProgramRepository *ProgramRepository
	StudentRepository *StudentRepository
	UserRepository    *UserRepository
}

// NewRepositories initializes all repositories for dialect
func NewRepositories(dialect db.Dialect) *Repositories {
	return &Repositories{
		CollegeRepository: NewCollegeRepository(dialect),
		ProgramRepository: NewProgramRepository(dialect),
		StudentRepository: NewStudentRepository(dialect),
		UserRepository:    NewUserRepository(dialect),
	}
}

// searchFilter matches term case-insensitively as a substring of any of
// columns. An empty term matches everything.
func searchFilter(term string, columns ...string) squirrel.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	pattern := "%" + escaper.Replace(strings.ToLower(term)) + "%"

	or := squirrel.Or{}
	for _, col := range columns {
		or = append(or, squirrel.Expr(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col), pattern))
	}
	return or
}

// exists reports whether table has at least one row where column = value.
func exists(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, table, column string, value any) (bool, error) {
	query, args, err := sb.Select("1").
		From(table).
		Where(squirrel.Eq{column: value}).
		Limit(1).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("error checking %s.%s: %w", table, column, err)
	}
	return found, nil
}

// count returns the number of rows in table.
func count(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, table string) (int, error) {
	query, args, err := sb.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}

// ids returns every id of table in ascending order.
func ids(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, table string) ([]int64, error) {
	query, args, err := sb.Select("id").From(table).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build id query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s ids: %w", table, err)
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning %s id: %w", table, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// requireAffected returns notFound when res reports no affected rows.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
