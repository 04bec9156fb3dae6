package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func NewPostgresService(dsn string, recentLimit int) (*SQLService, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db, dialectPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLService{
		db:          db,
		dialect:     dialectPostgres,
		recentLimit: recentLimit,
	}, nil
}
