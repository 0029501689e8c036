package eventloader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-kit/kit/log/level"
)

// ErrAccountNotFound is returned when no migration config exists for an account.
var ErrAccountNotFound = errors.New("account not found")

const migrationStatusFailed = "FAILED"

const (
	accountConfigQuery = `SELECT id, migrate_sent_email, migrate_link_click, migrate_open_email, migrate_unsubscribe FROM em_blue_account WHERE name = $1;`
	migrationLogInsert = `INSERT INTO em_blue_migration_log(date, account_id, event_type, file_name, status, message, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7);`
)

// accountConfig lists the event types an account is set up to receive.
type accountConfig struct {
	ID      int64
	Migrate [len(EventTypes)]bool
}

// AccountName returns the account an export belongs to: the part of the file
// name before its first underscore.
func AccountName(key string) string {
	return strings.Split(path.Base(key), "_")[0]
}

func (l *EventLoader) fetchAccountConfig(ctx context.Context, account string) (*accountConfig, error) {
	var cfg accountConfig
	err := l.DB.QueryRowContext(ctx, accountConfigQuery, account).Scan(
		&cfg.ID,
		&cfg.Migrate[EventSent],
		&cfg.Migrate[EventClick],
		&cfg.Migrate[EventOpen],
		&cfg.Migrate[EventUnsubscribe],
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch account config for %s: %w", account, err)
	}
	return &cfg, nil
}

// logFailure writes one migration log row per event type enabled for the
// export's account. It is best effort: every row is attempted and the
// returned error never replaces cause.
func (l *EventLoader) logFailure(ctx context.Context, key string, cause error) error {
	account := AccountName(key)
	cfg, err := l.fetchAccountConfig(ctx, account)
	if err != nil {
		return err
	}

	now := l.clock().Now().UTC()
	fileName := path.Base(key)
	var errs []error
	for _, et := range EventTypes {
		if !cfg.Migrate[et] {
			continue
		}
		_, err := l.DB.ExecContext(ctx, migrationLogInsert,
			now.Format("2006-01-02"),
			cfg.ID,
			et.Code(),
			fileName,
			migrationStatusFailed,
			cause.Error(),
			now,
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("write migration log for %s: %w", et, err))
			continue
		}
		level.Info(l.Logger).Log("msg", "wrote migration log",
			"account", account,
			"account_id", cfg.ID,
			"event_type", et.Code())
	}
	return errors.Join(errs...)
}
