package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"attendanceportal/internal/model"
	"attendanceportal/internal/store"
)

// Store persists portal data in Postgres using the pgx stdlib driver.
type Store struct {
	db *sql.DB
}

// New opens a Postgres connection with sane pool defaults.
func New(connString string) (*Store, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &Store{db: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports database reachability.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindEmployee matches on all three identity fields.
func (s *Store) FindEmployee(ctx context.Context, id, name, department string) (model.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, department, qr_code_url, created_at
		FROM employees
		WHERE id = $1 AND name = $2 AND department = $3
	`, id, name, department)
	var e model.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Department, &e.QRCodeURL, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Employee{}, store.ErrNotFound
		}
		return model.Employee{}, err
	}
	return e, nil
}

// GetEmployee returns an employee by id.
func (s *Store) GetEmployee(ctx context.Context, id string) (model.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, department, qr_code_url, created_at
		FROM employees
		WHERE id = $1
	`, id)
	var e model.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Department, &e.QRCodeURL, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Employee{}, store.ErrNotFound
		}
		return model.Employee{}, err
	}
	return e, nil
}

// InsertEmployee writes a new employee and returns the persisted row.
func (s *Store) InsertEmployee(ctx context.Context, e model.Employee) (model.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO employees (id, name, department, qr_code_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, e.ID, e.Name, e.Department, e.QRCodeURL)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return model.Employee{}, err
	}
	return e, nil
}

// ListAttendance returns an employee's records newest first.
func (s *Store) ListAttendance(ctx context.Context, employeeID string) ([]model.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, status, created_at
		FROM attendance
		WHERE employee_id = $1
		ORDER BY date DESC
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
