package ledger

import (
	"context"
	"fmt"

	"registrar/internal/platform/config"
)

// New builds the writer selected by cfg.Backend. Absent credentials yield
// Disabled with a nil error. Present but unusable credentials yield Disabled
// together with the error so the caller can log it and keep serving.
func New(ctx context.Context, cfg config.Ledger) (Writer, error) {
	switch cfg.Backend {
	case config.LedgerSheets:
		if cfg.SheetID == "" || cfg.ServiceAccountJSON == "" {
			return Disabled{}, nil
		}
		sa, err := ParseServiceAccount(cfg.ServiceAccountJSON)
		if err != nil {
			return Disabled{}, err
		}
		w, err := NewSheets(SheetsConfig{SpreadsheetID: cfg.SheetID, Range: cfg.SheetRange, Account: sa})
		if err != nil {
			return Disabled{}, err
		}
		return w, nil
	case config.LedgerPostgres:
		if cfg.DatabaseURL == "" {
			return Disabled{}, nil
		}
		w, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return Disabled{}, err
		}
		return w, nil
	case config.LedgerRedis:
		if cfg.RedisURL == "" {
			return Disabled{}, nil
		}
		w, err := NewRedis(ctx, cfg.RedisURL, cfg.RedisStream)
		if err != nil {
			return Disabled{}, err
		}
		return w, nil
	case config.LedgerNone, "":
		return Disabled{}, nil
	default:
		return Disabled{}, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
