package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// inTx runs fn in one transaction: commit when fn returns nil, rollback on an
// error or panic. Store failures surface as Unexpected.
func inTx(ctx context.Context, conn *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := conn.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}

	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return err
	}

	return unexpected("Transaction failed", err)
}

// first loads one row matching query into dest, mapping a missing row to
// NotFound with notFoundMsg.
func first(tx *gorm.DB, dest interface{}, notFoundMsg string, query interface{}, args ...interface{}) error {
	if err := tx.Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("%s", notFoundMsg)
		}
		return unexpected("Failed to load record", err)
	}
	return nil
}

func storeErr(message string, err error) error {
	if err == nil {
		return nil
	}
	return unexpected(message, err)
}

// isUniqueViolation recognises duplicate key errors from the supported drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// cloneID copies a nullable id so that later writes to the model through
// gorm do not change it.
func cloneID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func joinIDs(ids []uint) string {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
