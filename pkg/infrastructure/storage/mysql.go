package storage

import (
	"context"
	"database/sql"
	"embed"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

type slotRow struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

type mysqlStore struct {
	db *sqlx.DB
}

// NewMySQLStore expects the schema to be migrated already, see Migrate.
func NewMySQLStore(ctx context.Context, dsn string) (Store, error) {
	db, err := connectMySQL(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &mysqlStore{db: db}, nil
}

func (s *mysqlStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var row slotRow
	err := s.db.GetContext(ctx, &row, `SELECT name, value FROM slots WHERE name = ?`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select slot %s", slot)
	}
	return []byte(row.Value), nil
}

func (s *mysqlStore) Set(ctx context.Context, slot string, value []byte) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO slots (name, value) VALUES (:name, :value) ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		slotRow{Name: slot, Value: string(value)},
	)
	return errors.Wrapf(err, "upsert slot %s", slot)
}

func (s *mysqlStore) Remove(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, slot)
	return errors.Wrapf(err, "delete slot %s", slot)
}

func (s *mysqlStore) Close() error {
	return s.db.Close()
}

// Migrate brings the slots schema up to date.
func Migrate(ctx context.Context, dsn string) error {
	db, err := connectMySQL(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	driver, err := migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "create migrate driver")
	}
	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("schema is up to date")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	log.Info("schema migrated")
	return nil
}

func connectMySQL(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mysql")
	}
	return db, nil
}
