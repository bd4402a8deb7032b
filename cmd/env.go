package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/fetcher"
	"github.com/sells-group/h200-index/internal/index"
	"github.com/sells-group/h200-index/internal/observe"
	"github.com/sells-group/h200-index/internal/registry"
	"github.com/sells-group/h200-index/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "h200-index.db"
		}
		st, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initOrchestrator(snap *registry.Snapshot, history index.HistorySource) *index.Orchestrator {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Observe.UserAgent,
		Timeout:      time.Duration(cfg.Observe.ProviderTimeoutSecs) * time.Second,
		MaxRetries:   cfg.Observe.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
	source := observe.NewSource(cfg.Observe, cfg.Index, f)
	collector := observe.NewCollector(source, time.Duration(cfg.Observe.ProviderTimeoutSecs)*time.Second)
	return index.NewOrchestrator(snap, collector, history, cfg.Index)
}
