package database

import (
	"context"

	"todo-ledger/internal/config"
	"todo-ledger/internal/database/mongostore"
	"todo-ledger/internal/store"
	"todo-ledger/internal/store/memory"
)

// OpenStore opens and migrates the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverMongo:
		return mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}

	db, err := Init(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		s := NewStore(db)
		_ = s.Close()
		return nil, err
	}
	return NewStore(db), nil
}
