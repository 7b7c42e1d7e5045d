package repository

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"todoapp/internal/adapter/database"
	"todoapp/internal/core/port"
	tel "todoapp/internal/core/telemetry"
)

type Option func(*Store)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Store) {
		s.hashCost = cost
	}
}

// Store implements port.Store on top of database/sql. Outside WithTx every
// statement runs on the pool.
type Store struct {
	db        *database.DB
	telemetry port.Telemetry
	hashCost  int
	stores
}

type stores struct {
	credentials   *AccountRepository
	domainUsers   *DomainUserRepository
	refreshTokens *RefreshTokenRepository
}

func (s stores) Credentials() port.CredentialStore     { return s.credentials }
func (s stores) DomainUsers() port.DomainUserStore     { return s.domainUsers }
func (s stores) RefreshTokens() port.RefreshTokenStore { return s.refreshTokens }

func NewStore(db *database.DB, telemetry port.Telemetry, opts ...Option) *Store {
	if telemetry == nil {
		telemetry = tel.NewNoOpTelemetry()
	}

	s := &Store{
		db:        db,
		telemetry: telemetry,
		hashCost:  bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stores = s.bind(db.DB)

	return s
}

func (s *Store) bind(q database.Querier) stores {
	b := base{
		db:        s.db,
		q:         q,
		scanner:   database.NewScanner(),
		telemetry: s.telemetry,
	}

	return stores{
		credentials:   &AccountRepository{base: b, hashCost: s.hashCost},
		domainUsers:   &DomainUserRepository{base: b},
		refreshTokens: &RefreshTokenRepository{base: b},
	}
}

// WithTx runs fn inside one transaction. A non-nil error from fn, or a panic,
// rolls back; the error from fn is returned unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx port.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(s.bind(sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
