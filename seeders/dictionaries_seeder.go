package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedLeaveTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'leave_types'...")

	query := `INSERT INTO leave_types (code, name, annual_quota, is_paid, allow_half_day, count_non_working_days, is_comp_off)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (code) DO NOTHING;`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, lt := range leaveTypesData {
		if _, err := tx.Exec(ctx, query, lt.Code, lt.Name, lt.AnnualQuota, lt.IsPaid, lt.AllowHalfDay, lt.CountNonWorkingDays, lt.IsCompOff); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func seedSalaryTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'salary_types'...")

	query := `INSERT INTO salary_types (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING;`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, st := range salaryTypesData {
		if _, err := tx.Exec(ctx, query, st.Code, st.Name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
