package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

// Postgres persists vouch records in PostgreSQL. This store is pure I/O -
// promotion rules and eligibility checks belong to the service.
//
// Per-key serialization comes from the unique index on
// (guild_id, target_id, voucher_id): concurrent duplicate appends race on the
// constraint and exactly one insert wins.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed vouch store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the vouches table if it does not exist. Called once
// at startup; the bot owns its single table, so a migration tool would be
// overkill.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS vouches (
			id         BIGSERIAL PRIMARY KEY,
			guild_id   TEXT NOT NULL,
			target_id  TEXT NOT NULL,
			voucher_id TEXT NOT NULL,
			reason     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (guild_id, target_id, voucher_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure vouches schema: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, guild domain.GuildID, target domain.UserID) (models.RecordSet, error) {
	set, err := s.list(ctx, s.db, guild, target)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("get vouches: %w", unavailable(err))
	}
	return set, nil
}

func (s *Postgres) Append(ctx context.Context, guild domain.GuildID, target domain.UserID, v models.Vouch) (models.RecordSet, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("append vouch: begin: %w", unavailable(err))
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO vouches (guild_id, target_id, voucher_id, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, target_id, voucher_id) DO NOTHING
	`, guild.String(), target.String(), v.VoucherID.String(), v.Reason)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("append vouch: %w", unavailable(err))
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("append vouch: rows affected: %w", unavailable(err))
	}

	set, err := s.list(ctx, tx, guild, target)
	if err != nil {
		return models.RecordSet{}, fmt.Errorf("append vouch: %w", unavailable(err))
	}
	if err := tx.Commit(); err != nil {
		return models.RecordSet{}, fmt.Errorf("append vouch: commit: %w", unavailable(err))
	}

	if inserted == 0 {
		return set, fmt.Errorf("voucher %s already vouched for %s: %w", v.VoucherID, target, sentinel.ErrAlreadyUsed)
	}
	return set, nil
}

func (s *Postgres) Remove(ctx context.Context, guild domain.GuildID, target domain.UserID, voucher domain.UserID) (models.RecordSet, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.RecordSet{}, false, fmt.Errorf("remove vouch: begin: %w", unavailable(err))
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM vouches WHERE guild_id = $1 AND target_id = $2 AND voucher_id = $3
	`, guild.String(), target.String(), voucher.String())
	if err != nil {
		return models.RecordSet{}, false, fmt.Errorf("remove vouch: %w", unavailable(err))
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return models.RecordSet{}, false, fmt.Errorf("remove vouch: rows affected: %w", unavailable(err))
	}

	set, err := s.list(ctx, tx, guild, target)
	if err != nil {
		return models.RecordSet{}, false, fmt.Errorf("remove vouch: %w", unavailable(err))
	}
	if err := tx.Commit(); err != nil {
		return models.RecordSet{}, false, fmt.Errorf("remove vouch: commit: %w", unavailable(err))
	}
	return set, deleted > 0, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// list reads the record set in insertion order.
func (s *Postgres) list(ctx context.Context, q querier, guild domain.GuildID, target domain.UserID) (models.RecordSet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT voucher_id, reason
		FROM vouches
		WHERE guild_id = $1 AND target_id = $2
		ORDER BY id
	`, guild.String(), target.String())
	if err != nil {
		return models.RecordSet{}, err
	}
	defer rows.Close()

	set := models.RecordSet{Vouches: []models.Vouch{}}
	for rows.Next() {
		var voucherID, reason string
		if err := rows.Scan(&voucherID, &reason); err != nil {
			return models.RecordSet{}, err
		}
		set.Vouches = append(set.Vouches, models.Vouch{VoucherID: domain.UserID(voucherID), Reason: reason})
	}
	return set, rows.Err()
}
