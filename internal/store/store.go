// Package store persists negotiations, driver traits, relationship edges,
// and the decision log in SQLite.
package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/apexsim/paddock/internal/negotiation"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS negotiations (
	id                     TEXT PRIMARY KEY,
	kind                   TEXT NOT NULL,
	team_id                TEXT NOT NULL,
	counterparty_id        TEXT NOT NULL,
	target_season          INTEGER NOT NULL,
	phase                  TEXT NOT NULL,
	current_round          INTEGER NOT NULL,
	max_rounds             INTEGER NOT NULL,
	start_relationship     REAL NOT NULL,
	has_competing_offer    INTEGER NOT NULL DEFAULT 0,
	counterparty_initiated INTEGER NOT NULL DEFAULT 0,
	updated_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
	negotiation_id TEXT NOT NULL,
	number         INTEGER NOT NULL,
	offered_by     TEXT NOT NULL,
	terms_json     TEXT NOT NULL,
	offered_at     TEXT NOT NULL,
	expires_at     TEXT,
	response       TEXT,
	tone           TEXT,
	responded_at   TEXT,
	is_ultimatum   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (negotiation_id, number),
	FOREIGN KEY (negotiation_id) REFERENCES negotiations(id)
);

CREATE TABLE IF NOT EXISTS driver_traits (
	driver_id              TEXT PRIMARY KEY,
	desperation_multiplier REAL NOT NULL,
	rolled_at              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS relationship_edges (
	team_id         TEXT NOT NULL,
	counterparty_id TEXT NOT NULL,
	score           REAL NOT NULL,
	updated_at      TEXT NOT NULL,
	PRIMARY KEY (team_id, counterparty_id)
);

CREATE TABLE IF NOT EXISTS decision_log (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	negotiation_id     TEXT NOT NULL,
	kind               TEXT NOT NULL,
	round              INTEGER NOT NULL,
	response           TEXT NOT NULL,
	tone               TEXT,
	reason             TEXT,
	relationship_delta REAL NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	FOREIGN KEY (negotiation_id) REFERENCES negotiations(id)
);
`

// #endregion schema

// #region store-struct
// Store manages negotiation persistence in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by audit tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region save-negotiation
// SaveNegotiation upserts a negotiation and all of its rounds in one
// transaction. Rounds are append-only, but the latest round's response
// fields change in place, so every round is upserted.
func (s *Store) SaveNegotiation(n *negotiation.Negotiation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.Exec(
		`INSERT INTO negotiations
		   (id, kind, team_id, counterparty_id, target_season, phase,
		    current_round, max_rounds, start_relationship,
		    has_competing_offer, counterparty_initiated, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   phase = excluded.phase,
		   current_round = excluded.current_round,
		   has_competing_offer = excluded.has_competing_offer,
		   updated_at = excluded.updated_at`,
		n.ID, string(n.Kind), n.TeamID, n.CounterpartyID, n.TargetSeason,
		string(n.Phase), n.CurrentRound, n.MaxRounds, n.StartRelationship,
		boolInt(n.HasCompetingOffer), boolInt(n.CounterpartyInitiated), now,
	)
	if err != nil {
		return fmt.Errorf("upsert negotiation: %w", err)
	}

	for _, r := range n.Rounds {
		termsJSON, err := json.Marshal(r.Terms)
		if err != nil {
			return fmt.Errorf("marshal terms: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO rounds
			   (negotiation_id, number, offered_by, terms_json, offered_at,
			    expires_at, response, tone, responded_at, is_ultimatum)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(negotiation_id, number) DO UPDATE SET
			   response = excluded.response,
			   tone = excluded.tone,
			   responded_at = excluded.responded_at`,
			n.ID, r.Number, string(r.OfferedBy), string(termsJSON),
			r.OfferedAt.UTC().Format(time.RFC3339Nano),
			nullTime(r.ExpiresAt), nullString(string(r.Response)),
			nullString(string(r.Tone)), nullTime(r.RespondedAt),
			boolInt(r.IsUltimatum),
		)
		if err != nil {
			return fmt.Errorf("upsert round %d: %w", r.Number, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-negotiation

// #region load-negotiation
// LoadNegotiation loads one negotiation with all rounds.
func (s *Store) LoadNegotiation(id string) (*negotiation.Negotiation, error) {
	row := s.db.QueryRow(
		`SELECT id, kind, team_id, counterparty_id, target_season, phase,
		        current_round, max_rounds, start_relationship,
		        has_competing_offer, counterparty_initiated
		 FROM negotiations WHERE id = ?`, id)
	n, err := scanNegotiation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("negotiation %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadRounds(n); err != nil {
		return nil, err
	}
	return n, nil
}

// LoadAll loads every negotiation, insertion-ordered by rowid so day batches
// replay in their original order.
func (s *Store) LoadAll() (*negotiation.List, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, team_id, counterparty_id, target_season, phase,
		        current_round, max_rounds, start_relationship,
		        has_competing_offer, counterparty_initiated
		 FROM negotiations ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query negotiations: %w", err)
	}
	defer rows.Close()

	list := &negotiation.List{}
	for rows.Next() {
		n, err := scanNegotiation(rows)
		if err != nil {
			return nil, err
		}
		list.Add(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate negotiations: %w", err)
	}
	for _, n := range list.Items {
		if err := s.loadRounds(n); err != nil {
			return nil, err
		}
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNegotiation(row rowScanner) (*negotiation.Negotiation, error) {
	var n negotiation.Negotiation
	var kind, phase string
	var competing, initiated int
	err := row.Scan(&n.ID, &kind, &n.TeamID, &n.CounterpartyID, &n.TargetSeason,
		&phase, &n.CurrentRound, &n.MaxRounds, &n.StartRelationship,
		&competing, &initiated)
	if err != nil {
		return nil, err
	}
	n.Kind = negotiation.Kind(kind)
	n.Phase = negotiation.Phase(phase)
	n.HasCompetingOffer = competing != 0
	n.CounterpartyInitiated = initiated != 0
	return &n, nil
}

func (s *Store) loadRounds(n *negotiation.Negotiation) error {
	rows, err := s.db.Query(
		`SELECT number, offered_by, terms_json, offered_at, expires_at,
		        response, tone, responded_at, is_ultimatum
		 FROM rounds WHERE negotiation_id = ? ORDER BY number`, n.ID)
	if err != nil {
		return fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r negotiation.Round
		var offeredBy, termsJSON, offeredAt string
		var expiresAt, response, tone, respondedAt sql.NullString
		var ultimatum int
		if err := rows.Scan(&r.Number, &offeredBy, &termsJSON, &offeredAt,
			&expiresAt, &response, &tone, &respondedAt, &ultimatum); err != nil {
			return fmt.Errorf("scan round: %w", err)
		}
		r.OfferedBy = negotiation.Party(offeredBy)
		if err := json.Unmarshal([]byte(termsJSON), &r.Terms); err != nil {
			return fmt.Errorf("unmarshal terms: %w", err)
		}
		if r.OfferedAt, err = time.Parse(time.RFC3339Nano, offeredAt); err != nil {
			return fmt.Errorf("parse offered_at: %w", err)
		}
		if expiresAt.Valid {
			if r.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt.String); err != nil {
				return fmt.Errorf("parse expires_at: %w", err)
			}
		}
		if response.Valid {
			r.Response = negotiation.ResponseType(response.String)
		}
		if tone.Valid {
			r.Tone = negotiation.Tone(tone.String)
		}
		if respondedAt.Valid {
			if r.RespondedAt, err = time.Parse(time.RFC3339Nano, respondedAt.String); err != nil {
				return fmt.Errorf("parse responded_at: %w", err)
			}
		}
		r.IsUltimatum = ultimatum != 0
		n.Rounds = append(n.Rounds, r)
	}
	return rows.Err()
}

// #endregion load-negotiation

// #region driver-traits
// SaveDriverTrait stores a driver's rolled desperation multiplier. The trait
// is rolled once and then only ever read back.
func (s *Store) SaveDriverTrait(driverID string, multiplier float64) error {
	_, err := s.db.Exec(
		`INSERT INTO driver_traits (driver_id, desperation_multiplier, rolled_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(driver_id) DO NOTHING`,
		driverID, multiplier, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert driver trait: %w", err)
	}
	return nil
}

// DriverTraits loads every stored desperation multiplier.
func (s *Store) DriverTraits() (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT driver_id, desperation_multiplier FROM driver_traits`)
	if err != nil {
		return nil, fmt.Errorf("query driver traits: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var m float64
		if err := rows.Scan(&id, &m); err != nil {
			return nil, fmt.Errorf("scan driver trait: %w", err)
		}
		out[id] = m
	}
	return out, rows.Err()
}

// #endregion driver-traits

// #region relationship-edges
// SaveRelationship upserts one relationship edge score.
func (s *Store) SaveRelationship(teamID, counterpartyID string, score float64) error {
	_, err := s.db.Exec(
		`INSERT INTO relationship_edges (team_id, counterparty_id, score, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(team_id, counterparty_id) DO UPDATE SET
		   score = excluded.score,
		   updated_at = excluded.updated_at`,
		teamID, counterpartyID, score, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert relationship: %w", err)
	}
	return nil
}

// RelationshipEdge is one stored team-to-counterparty score.
type RelationshipEdge struct {
	TeamID         string
	CounterpartyID string
	Score          float64
}

// Relationships loads every stored relationship edge.
func (s *Store) Relationships() ([]RelationshipEdge, error) {
	rows, err := s.db.Query(`SELECT team_id, counterparty_id, score FROM relationship_edges`)
	if err != nil {
		return nil, fmt.Errorf("query relationships: %w", err)
	}
	defer rows.Close()

	var out []RelationshipEdge
	for rows.Next() {
		var e RelationshipEdge
		if err := rows.Scan(&e.TeamID, &e.CounterpartyID, &e.Score); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion relationship-edges

// #region decision-log
// RecordDecision appends one evaluator decision to the audit log.
func (s *Store) RecordDecision(e negotiation.DecisionEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO decision_log
		   (negotiation_id, kind, round, response, tone, reason,
		    relationship_delta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.NegotiationID, string(e.Kind), e.Round, string(e.Response),
		string(e.Tone), e.Reason, e.RelationshipDelta,
		e.Time.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Decisions loads the decision log for one negotiation, oldest first.
func (s *Store) Decisions(negotiationID string) ([]negotiation.DecisionEntry, error) {
	rows, err := s.db.Query(
		`SELECT negotiation_id, kind, round, response, tone, reason,
		        relationship_delta, created_at
		 FROM decision_log WHERE negotiation_id = ? ORDER BY id`, negotiationID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []negotiation.DecisionEntry
	for rows.Next() {
		var e negotiation.DecisionEntry
		var kind, response, tone, createdAt string
		if err := rows.Scan(&e.NegotiationID, &kind, &e.Round, &response,
			&tone, &e.Reason, &e.RelationshipDelta, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Kind = negotiation.Kind(kind)
		e.Response = negotiation.ResponseType(response)
		e.Tone = negotiation.Tone(tone)
		if e.Time, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse decision time: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion decision-log

// #region helpers

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// #endregion
