package history

import (
	"fmt"
	"time"
)

// Run records the outcome of one device verification.
type Run struct {
	ID             int64
	Serial         string
	Model          string
	AndroidVersion string
	Manufacturer   string
	NetworkOK      bool
	FilesystemOK   bool
	CheckedAt      time.Time
}

// Passed returns true if both connectivity probes succeeded.
func (r Run) Passed() bool {
	return r.NetworkOK && r.FilesystemOK
}

// RecordRun inserts a verification run.
func (h *DB) RecordRun(r Run) error {
	checkedAt := r.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO runs (serial, model, android_version, manufacturer, network_ok, filesystem_ok, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Serial, r.Model, r.AndroidVersion, r.Manufacturer, r.NetworkOK, r.FilesystemOK, checkedAt,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs returns recorded runs, newest first. An empty serial matches all
// devices; limit <= 0 means no limit.
func (h *DB) Runs(serial string, limit int) ([]Run, error) {
	query := `SELECT id, serial, model, android_version, manufacturer, network_ok, filesystem_ok, checked_at
	          FROM runs`
	var args []any
	if serial != "" {
		query += ` WHERE serial = ?`
		args = append(args, serial)
	}
	query += ` ORDER BY checked_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Serial, &r.Model, &r.AndroidVersion, &r.Manufacturer,
			&r.NetworkOK, &r.FilesystemOK, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeviceStats summarizes the verification history of one device.
type DeviceStats struct {
	TotalRuns   int
	PassedRuns  int
	LastChecked *time.Time
}

// GetDeviceStats returns verification statistics for a device.
func (h *DB) GetDeviceStats(serial string) (DeviceStats, error) {
	var stats DeviceStats
	err := h.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN network_ok AND filesystem_ok THEN 1 ELSE 0 END), 0)
		 FROM runs WHERE serial = ?`, serial,
	).Scan(&stats.TotalRuns, &stats.PassedRuns)
	if err != nil {
		return stats, fmt.Errorf("device stats: %w", err)
	}
	if stats.TotalRuns > 0 {
		var last time.Time
		err = h.db.QueryRow(
			`SELECT checked_at FROM runs WHERE serial = ? ORDER BY checked_at DESC LIMIT 1`, serial,
		).Scan(&last)
		if err != nil {
			return stats, fmt.Errorf("device stats: %w", err)
		}
		stats.LastChecked = &last
	}
	return stats, nil
}
