// Package scheduler runs the recurring background jobs: the cross-reference
// matcher and per-source refreshes, driven by persisted schedules and asynq.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Frequency is how often a scheduled job recurs.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// ParseFrequency validates a frequency string.
func ParseFrequency(raw string) (Frequency, error) {
	f := Frequency(raw)
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", raw)
}

// NextRun computes the next execution time after now for the given frequency.
// Daily and weekly run at a fixed interval from now. Monthly runs on the first
// of the next month at 04:00 UTC, quarterly on the first of the next quarter
// at 05:00 UTC, so the heavier jobs land in the quiet early hours.
func NextRun(freq Frequency, now time.Time) time.Time {
	now = now.UTC()
	switch freq {
	case FrequencyDaily:
		return now.Add(24 * time.Hour)
	case FrequencyWeekly:
		return now.Add(7 * 24 * time.Hour)
	case FrequencyMonthly:
		return time.Date(now.Year(), now.Month()+1, 1, 4, 0, 0, 0, time.UTC)
	case FrequencyQuarterly:
		quarter := (int(now.Month())-1)/3 + 1
		month := time.Month(quarter*3 + 1)
		return time.Date(now.Year(), month, 1, 5, 0, 0, 0, time.UTC)
	default:
		return now.Add(24 * time.Hour)
	}
}

// JobSchedule is one persisted recurring job.
type JobSchedule struct {
	Job       string
	Frequency Frequency
	NextRun   time.Time
}

// ScheduleStore persists job schedules in PostgreSQL. Persisting next_run
// keeps schedules stable across restarts and shared between replicas.
type ScheduleStore struct {
	pool *pgxpool.Pool
}

func NewScheduleStore(pool *pgxpool.Pool) *ScheduleStore {
	return &ScheduleStore{pool: pool}
}

// Set creates or updates a schedule, recomputing next_run from now.
func (s *ScheduleStore) Set(ctx context.Context, job string, freq Frequency, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_schedules (job, frequency, next_run)
		VALUES ($1, $2, $3)
		ON CONFLICT (job) DO UPDATE
		SET frequency = EXCLUDED.frequency, next_run = EXCLUDED.next_run
	`, job, string(freq), NextRun(freq, now))
	if err != nil {
		return fmt.Errorf("set schedule: %w", err)
	}
	return nil
}

// Seed inserts a schedule only when the job has none yet, so restarts do not
// push an existing next_run forward.
func (s *ScheduleStore) Seed(ctx context.Context, job string, freq Frequency, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_schedules (job, frequency, next_run)
		VALUES ($1, $2, $3)
		ON CONFLICT (job) DO NOTHING
	`, job, string(freq), NextRun(freq, now))
	if err != nil {
		return fmt.Errorf("seed schedule: %w", err)
	}
	return nil
}

// Due claims the schedules whose next_run has passed, advancing each next_run
// in the same statement. The row lock keeps two dispatcher replicas from
// claiming the same schedule.
func (s *ScheduleStore) Due(ctx context.Context, now time.Time) ([]JobSchedule, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE refresh_schedules rs
		SET next_run = CASE frequency
			WHEN 'daily' THEN $1::timestamptz + interval '1 day'
			WHEN 'weekly' THEN $1::timestamptz + interval '7 days'
			WHEN 'monthly' THEN date_trunc('month', $1::timestamptz) + interval '1 month 4 hours'
			ELSE date_trunc('quarter', $1::timestamptz) + interval '3 months 5 hours'
		END
		FROM (
			SELECT job FROM refresh_schedules
			WHERE next_run <= $1
			FOR UPDATE SKIP LOCKED
		) due
		WHERE rs.job = due.job
		RETURNING rs.job, rs.frequency, rs.next_run
	`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("claim due schedules: %w", err)
	}
	defer rows.Close()

	var schedules []JobSchedule
	for rows.Next() {
		var js JobSchedule
		var freq string
		if err := rows.Scan(&js.Job, &freq, &js.NextRun); err != nil {
			return nil, err
		}
		js.Frequency = Frequency(freq)
		schedules = append(schedules, js)
	}
	return schedules, rows.Err()
}

// List returns all schedules for inspection.
func (s *ScheduleStore) List(ctx context.Context) ([]JobSchedule, error) {
	rows, err := s.pool.Query(ctx, `SELECT job, frequency, next_run FROM refresh_schedules ORDER BY job`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []JobSchedule
	for rows.Next() {
		var js JobSchedule
		var freq string
		if err := rows.Scan(&js.Job, &freq, &js.NextRun); err != nil {
			return nil, err
		}
		js.Frequency = Frequency(freq)
		schedules = append(schedules, js)
	}
	return schedules, rows.Err()
}
