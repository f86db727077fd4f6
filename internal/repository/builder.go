package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func pageOffset(page, size int) uint64 {
	if page < 1 {
		page = 1
	}
	return uint64((page - 1) * size)
}

// expectAffected turns a zero-row write into sql.ErrNoRows so services can map it to not-found.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
