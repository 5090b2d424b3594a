// AngelaMos | 2026
// schema.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36)  PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		id                 VARCHAR(36) PRIMARY KEY,
		user_id            VARCHAR(36) NOT NULL REFERENCES users(id),
		access_token_hash  VARCHAR(64) NOT NULL,
		refresh_token_hash VARCHAR(64) NOT NULL,
		expires_at         TIMESTAMPTZ NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tokens_access_token ON tokens (access_token_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_tokens_refresh_token ON tokens (refresh_token_hash)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          VARCHAR(36)    PRIMARY KEY,
		name        VARCHAR(255)   NOT NULL,
		description TEXT           NOT NULL,
		price       NUMERIC(10, 2) NOT NULL,
		image       BYTEA          NOT NULL,
		created_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ    NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chats (
		id         VARCHAR(36) PRIMARY KEY,
		user_id    VARCHAR(36) NOT NULL REFERENCES users(id),
		admin_id   VARCHAR(36) NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chats_user_id ON chats (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chats_admin_id ON chats (admin_id)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id        VARCHAR(36) PRIMARY KEY,
		chat_id   VARCHAR(36) NOT NULL REFERENCES chats(id),
		sender_id VARCHAR(36) NOT NULL REFERENCES users(id),
		content   TEXT        NOT NULL,
		sent_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_sent ON messages (chat_id, sent_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36)  PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_admin      BOOLEAN      NOT NULL DEFAULT FALSE,
		created_at    DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tokens (
		id                 VARCHAR(36) PRIMARY KEY,
		user_id            VARCHAR(36) NOT NULL,
		access_token_hash  VARCHAR(64) NOT NULL,
		refresh_token_hash VARCHAR(64) NOT NULL,
		expires_at         DATETIME(6) NOT NULL,
		created_at         DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_tokens_access_token (access_token_hash),
		INDEX idx_tokens_refresh_token (refresh_token_hash),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS products (
		id          VARCHAR(36)    PRIMARY KEY,
		name        VARCHAR(255)   NOT NULL,
		description TEXT           NOT NULL,
		price       DECIMAL(10, 2) NOT NULL,
		image       LONGBLOB       NOT NULL,
		created_at  DATETIME(6)    NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at  DATETIME(6)    NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS chats (
		id         VARCHAR(36) PRIMARY KEY,
		user_id    VARCHAR(36) NOT NULL,
		admin_id   VARCHAR(36) NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_chats_user_id (user_id),
		INDEX idx_chats_admin_id (admin_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (admin_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS messages (
		id        VARCHAR(36) PRIMARY KEY,
		chat_id   VARCHAR(36) NOT NULL,
		sender_id VARCHAR(36) NOT NULL,
		content   TEXT        NOT NULL,
		sent_at   DATETIME(6) NOT NULL,
		INDEX idx_messages_chat_sent (chat_id, sent_at),
		FOREIGN KEY (chat_id) REFERENCES chats(id),
		FOREIGN KEY (sender_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func SchemaStatements(driver string) ([]string, error) {
	switch driver {
	case DriverPostgres:
		return postgresSchema, nil
	case DriverMySQL:
		return mysqlSchema, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// EnsureSchema creates every table that does not exist yet. Safe to run
// on each start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts, err := SchemaStatements(db.DriverName())
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
