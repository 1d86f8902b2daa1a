package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// GetConfig returns the stored value for key, and whether it was present.
func (s *Store) GetConfig(ctx context.Context, key string) (string, bool, error) {
	var row configModel
	err := s.db.NewSelect().Model(&row).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// SetConfig persists key=value, overwriting any previous value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// AllConfig returns every persisted key/value pair.
func (s *Store) AllConfig(ctx context.Context) (map[string]string, error) {
	var rows []configModel
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, err
	}
	ret := make(map[string]string, len(rows))
	for _, r := range rows {
		ret[r.Key] = r.Value
	}
	return ret, nil
}
