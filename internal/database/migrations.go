package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order on every start; every statement is idempotent.
var schema = []struct {
	name string
	sql  string
}{
	{"cinemas", `
	CREATE TABLE IF NOT EXISTS cinemas (
		id          VARCHAR(64)  NOT NULL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		short_name  VARCHAR(64)  NOT NULL DEFAULT '',
		website     VARCHAR(512) NOT NULL DEFAULT '',
		address     VARCHAR(512) NOT NULL DEFAULT '',
		features    JSON         NULL,
		created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"films", `
	CREATE TABLE IF NOT EXISTS films (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		canonical_key  VARCHAR(255)    NOT NULL,
		title          VARCHAR(512)    NOT NULL,
		year           SMALLINT        NULL,
		director       VARCHAR(255)    NULL,
		created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_films_canonical (canonical_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"screenings", `
	CREATE TABLE IF NOT EXISTS screenings (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		cinema_id    VARCHAR(64)     NOT NULL,
		film_id      BIGINT UNSIGNED NOT NULL,
		starts_at    DATETIME        NOT NULL,
		screen       VARCHAR(64)     NOT NULL DEFAULT '',
		format       VARCHAR(64)     NOT NULL DEFAULT '',
		booking_url  VARCHAR(1024)   NOT NULL,
		event_type   VARCHAR(32)     NOT NULL DEFAULT '',
		source_id    VARCHAR(255)    NOT NULL DEFAULT '',
		raw_title    VARCHAR(512)    NOT NULL DEFAULT '',
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_screening (cinema_id, film_id, starts_at, screen),
		KEY idx_screenings_starts (starts_at),
		CONSTRAINT fk_screenings_cinema FOREIGN KEY (cinema_id) REFERENCES cinemas(id),
		CONSTRAINT fk_screenings_film FOREIGN KEY (film_id) REFERENCES films(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"import_runs", `
	CREATE TABLE IF NOT EXISTS import_runs (
		id              CHAR(36)     NOT NULL PRIMARY KEY,
		run_type        VARCHAR(16)  NOT NULL,
		status          VARCHAR(16)  NOT NULL,
		pdf_status      VARCHAR(16)  NOT NULL,
		changes_status  VARCHAR(16)  NOT NULL,
		counts          JSON         NOT NULL,
		errors          JSON         NOT NULL,
		triggered_by    VARCHAR(128) NOT NULL,
		started_at      DATETIME(3)  NOT NULL,
		finished_at     DATETIME(3)  NOT NULL,
		duration_ms     BIGINT       NOT NULL,
		KEY idx_import_runs_started (started_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
