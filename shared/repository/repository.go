package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"wsb/infras/otel"
	"wsb/infras/postgres"
	"wsb/shared/constant"
	"wsb/shared/dto"
	"wsb/shared/logger"

	"github.com/jmoiron/sqlx"
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	if c.alias != "" {
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	}

	return fmt.Sprintf("%s.%s", c.table, c.name)
}

// Joiner is implemented by models whose rows span more than one table.
type Joiner interface {
	GetJoinQuery() string
}

// Repository is the read side shared by the catalog, reservation and
// notification stores. Columns come from the db/table/column tags of T.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	join := ""
	if joiner, ok := any(zero).(Joiner); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       getColumns(tableName, reflect.TypeOf(zero)),
		join:          join,
	}
}

// Get returns the first row matching filter, or the zero T when none does.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup) (model T, err error) {
	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(nil), repo.table, repo.join, where)

	err = repo.run(ctx, "Get", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	return model, err
}

// GetAll pages through the rows matching filter. Sorting is only applied on
// a column of the repository's own table, with the primary key as tie-break.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	var ordering, pagination string

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = params.Offset()
			pagination += " OFFSET :offset"
		}
	}

	if params.SortBy != "" && params.SortDir != "" && repo.hasColumn(params.SortBy) {
		ordering = fmt.Sprintf("ORDER BY %s.%s %s, %s.%s", repo.table, params.SortBy, params.SortDir, repo.table, repo.primaryColumn)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectList(columns), repo.table, repo.join, where, ordering, pagination)

	var models []T

	err := repo.run(ctx, "GetAll", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	err := repo.run(ctx, "Count", query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})

	return count, err
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

// run prepares query on the read pool and hands the statement to scan inside
// a trace scope. sql.ErrNoRows is returned as is.
func (repo *Repository[T]) run(ctx context.Context, op, query string, scan func(stmt *sqlx.NamedStmt) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to prepare statement (%s): %w", repo.entity, err)
	}
	defer stmt.Close()

	err = scan(stmt)
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err //nolint:wrapcheck
	}

	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to run %s (%s): %w", op, repo.entity, err)
}

func (repo *Repository[T]) selectList(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

func (repo *Repository[T]) hasColumn(name string) bool {
	return slices.ContainsFunc(repo.columns, func(col column) bool {
		return col.table == repo.table && col.name == name
	})
}

func getColumns(table string, reflectType reflect.Type) (columns []column) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, getColumns(table, field.Type)...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		col := column{name: dbTag, table: field.Tag.Get("table")}
		if col.table == "" {
			col.table = table
		}

		if name := field.Tag.Get("column"); name != "" {
			col.name, col.alias = name, dbTag
		}

		columns = append(columns, col)
	}

	return columns
}
