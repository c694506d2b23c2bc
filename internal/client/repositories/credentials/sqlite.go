package credentials

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/resumefit/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/resumefit/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (Credentials, error) {
	repo := metadata.NewSQLiteRepository(r.db)

	access, err := repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return Credentials{}, err
	}
	refresh, err := repo.Get(ctx, KeyRefreshToken)
	if err != nil {
		return Credentials{}, err
	}
	user, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{AccessToken: string(access), RefreshToken: string(refresh), User: user}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, c Credentials) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(c.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyRefreshToken, []byte(c.RefreshToken)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, c.User)
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, Keys...)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
