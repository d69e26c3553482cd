package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

// PostgresStorage хранит снимки корзин в таблице cart_snapshot:
//
//	CREATE TABLE cart_snapshot (
//		key        TEXT PRIMARY KEY,
//		items      JSONB NOT NULL,
//		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStorage struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewPostgresStorage(db *sql.DB, logger *zap.SugaredLogger) *PostgresStorage {
	return &PostgresStorage{
		DB:     db,
		Logger: logger,
	}
}

// Load получает снимок корзины по ключу
func (ps *PostgresStorage) Load(ctx context.Context, key string) ([]product.CartItem, error) {
	query := `
	SELECT items FROM cart_snapshot
	WHERE key = $1
`
	var data []byte
	err := ps.DB.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}

		ps.Logger.Errorf("Ошибка при получении корзины %v: %v", key, err)
		return nil, myErr.ErrDBInternal
	}

	var items []product.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		ps.Logger.Errorf("Битый снимок корзины %v: %v", key, err)
		return nil, myErr.ErrCorrupted
	}

	return items, nil
}

// Save перезаписывает снимок корзины
func (ps *PostgresStorage) Save(ctx context.Context, key string, items []product.CartItem) error {
	if items == nil {
		items = []product.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		ps.Logger.Errorf("Ошибка сериализации корзины %v: %v", key, err)
		return myErr.ErrStorage
	}

	query := `
	INSERT INTO cart_snapshot(key, items, updated_at)
	VALUES ($1, $2, now()) ON CONFLICT (key)
	DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
`
	_, err = ps.DB.ExecContext(ctx, query, key, data)
	if err != nil {
		ps.Logger.Errorf("Ошибка при сохранении корзины: %v", err)
		return myErr.ErrDBInternal
	}

	return nil
}
