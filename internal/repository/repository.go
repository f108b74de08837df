// Package repository contains the data access layer. Services depend on these
// interfaces, not on the concrete GORM implementations, enabling clean unit
// testing via in-memory stubs.
//
// Status writes use conditional updates ("compare-and-swap on status"): the
// UPDATE is guarded by the status value observed at read time, and zero
// affected rows surfaces as ErrStaleStatus. The service layer maps that to a
// conflict instead of silently overwriting a concurrent writer.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStaleStatus is returned by conditional status updates when the
// precondition status no longer matches — i.e. the record changed between the
// caller's read and its write, or the id does not resolve at all.
var ErrStaleStatus = errors.New("status precondition no longer holds")

// countByStatus groups any status-carrying table by its status column.
// Shared by every repository's CountByStatus (dashboard aggregation).
func countByStatus[S ~string](ctx context.Context, db *gorm.DB, mdl interface{}) (map[S]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := db.WithContext(ctx).Model(mdl).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[S]int64, len(rows))
	for _, r := range rows {
		out[S(r.Status)] = r.N
	}
	return out, nil
}
