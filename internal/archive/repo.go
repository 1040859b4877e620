package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"cardclash/internal/battle"
)

// Batalhas encerradas saem da memória do coordenador; esta é a cópia
// durável. Uma linha por batalha, escrita idempotente.

// Open conecta ao Postgres e valida a conexão.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Repo implementa battle.Archiver sobre Postgres.
type Repo struct {
	db *sql.DB
}

// NewRepo liga o repositório a uma conexão SQL.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// EnsureSchema cria a tabela se este for o primeiro boot.
func (r *Repo) EnsureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS battle_archive (
	battle_code TEXT PRIMARY KEY,
	creator     TEXT NOT NULL,
	joiner      TEXT NOT NULL,
	stake       BIGINT NOT NULL,
	winner      TEXT NOT NULL DEFAULT '',
	scores      JSONB NOT NULL,
	forfeited   BOOLEAN NOT NULL DEFAULT FALSE,
	finished_at TIMESTAMPTZ NOT NULL
)`
	_, err := r.db.Exec(ddl)
	return err
}

// SaveResult grava a fotografia final da batalha. ON CONFLICT DO NOTHING:
// um término entregue em duplicata não reescreve o arquivo.
func (r *Repo) SaveResult(rec battle.ArchiveRecord) error {
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores for battle %s: %w", rec.BattleCode, err)
	}

	const query = `
INSERT INTO battle_archive (battle_code, creator, joiner, stake, winner, scores, forfeited, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (battle_code) DO NOTHING`

	_, err = r.db.Exec(query,
		rec.BattleCode, rec.Creator, rec.Joiner, rec.Stake, rec.Winner, scores, rec.Forfeited, time.Now())
	if err != nil {
		return fmt.Errorf("failed to archive battle %s: %w", rec.BattleCode, err)
	}

	log.Printf("[Archive] Battle %s archived.", rec.BattleCode)
	return nil
}
