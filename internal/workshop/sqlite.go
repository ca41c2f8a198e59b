package workshop

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps orders in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Workers update concurrently; one connection serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  description TEXT NOT NULL,
  prep_time INTEGER NOT NULL,
  priority INTEGER NOT NULL,
  status TEXT NOT NULL,
  worker_id INTEGER
);
`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Add(ctx context.Context, o Order) (Order, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (description, prep_time, priority, status, worker_id) VALUES (?, ?, ?, ?, ?)`,
		o.Description, o.PrepTime, o.Priority, string(o.Status), workerArg(o.WorkerID),
	)
	if err != nil {
		return Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Order{}, err
	}
	o.ID = int(id)
	return o, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, prep_time, priority, status, worker_id FROM orders ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o      Order
			status string
			worker sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.Description, &o.PrepTime, &o.Priority, &status, &worker); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		if worker.Valid {
			w := int(worker.Int64)
			o.WorkerID = &w
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, o Order) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET description = ?, prep_time = ?, priority = ?, status = ?, worker_id = ? WHERE id = ?`,
		o.Description, o.PrepTime, o.Priority, string(o.Status), workerArg(o.WorkerID), o.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'orders'`); err != nil {
		return err
	}
	return tx.Commit()
}

func workerArg(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}
