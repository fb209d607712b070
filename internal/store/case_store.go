package store

import (
	"database/sql"
	"fmt"

	"github.com/voicedesk/voicedesk/internal/domain"
)

// CaseStore manages the fraud-case table. Cases are inserted by seeding or
// an upstream intake system; the conversation only ever reads them and
// writes back a terminal status with an outcome note.
type CaseStore struct {
	db *DB
}

// NewCaseStore creates a case store using the given database.
func NewCaseStore(db *DB) *CaseStore {
	return &CaseStore{db: db}
}

const caseColumns = `id, username, customer_name, security_id, masked_card, amount,
	merchant, location, timestamp, security_question, security_answer, status, outcome_note`

// Latest returns the most recent case for a username, or nil when the
// username has no cases at all.
func (s *CaseStore) Latest(username string) (*domain.FraudCase, error) {
	row := s.db.sql.QueryRow(
		`SELECT `+caseColumns+` FROM fraud_cases WHERE username = ? ORDER BY id DESC LIMIT 1`,
		username,
	)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading case for %q: %w", username, err)
	}
	return c, nil
}

// Get returns a case by id, or nil when it does not exist.
func (s *CaseStore) Get(id int64) (*domain.FraudCase, error) {
	row := s.db.sql.QueryRow(`SELECT `+caseColumns+` FROM fraud_cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading case %d: %w", id, err)
	}
	return c, nil
}

// UpdateStatus writes the terminal status and outcome note for a case.
// Each finalize call overwrites the case's single status row; repeat calls
// update, never duplicate.
func (s *CaseStore) UpdateStatus(id int64, status, note string) error {
	_, err := s.db.sql.Exec(
		`UPDATE fraud_cases SET status = ?, outcome_note = ? WHERE id = ?`,
		status, note, id,
	)
	if err != nil {
		return fmt.Errorf("updating case %d: %w", id, err)
	}
	s.db.log.Info().Int64("case", id).Str("status", status).Str("note", note).Msg("fraud case updated")
	return nil
}

// Insert adds a case and returns its assigned id.
func (s *CaseStore) Insert(c domain.FraudCase) (int64, error) {
	if c.Status == "" {
		c.Status = domain.CasePending
	}
	res, err := s.db.sql.Exec(
		`INSERT INTO fraud_cases (username, customer_name, security_id, masked_card, amount,
			merchant, location, timestamp, security_question, security_answer, status, outcome_note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Username, c.CustomerName, c.SecurityID, c.MaskedCard, c.Amount,
		c.Merchant, c.Location, c.Timestamp, c.SecurityQuestion, c.SecurityAnswer,
		c.Status, c.OutcomeNote,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting case for %q: %w", c.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading case id: %w", err)
	}
	return id, nil
}

// Count returns the number of cases in the table.
func (s *CaseStore) Count() (int, error) {
	var n int
	if err := s.db.sql.QueryRow(`SELECT COUNT(*) FROM fraud_cases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cases: %w", err)
	}
	return n, nil
}

// SeedDemo inserts the demo cases when the table is empty, so a fresh
// install has something to verify against. Repeat calls are no-ops.
func (s *CaseStore) SeedDemo() error {
	n, err := s.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, c := range DemoCases() {
		if _, err := s.Insert(c); err != nil {
			return err
		}
	}
	s.db.log.Info().Int("cases", len(DemoCases())).Msg("seeded demo fraud cases")
	return nil
}

// DemoCases returns the built-in demo fraud cases.
func DemoCases() []domain.FraudCase {
	return []domain.FraudCase{
		{
			Username:         "ravi.kumar",
			CustomerName:     "Ravi Kumar",
			SecurityID:       "SEC-1041",
			MaskedCard:       "XXXX-XXXX-XXXX-4532",
			Amount:           4999.00,
			Merchant:         "TechBazaar Online",
			Location:         "Mumbai",
			Timestamp:        "2025-11-14 21:12",
			SecurityQuestion: "What is your favorite color?",
			SecurityAnswer:   "blue",
		},
		{
			Username:         "anita.shah",
			CustomerName:     "Anita Shah",
			SecurityID:       "SEC-2210",
			MaskedCard:       "**** **** **** 9911",
			Amount:           120.50,
			Merchant:         "Corner Coffee",
			Location:         "Pune",
			Timestamp:        "2025-11-15 08:47",
			SecurityQuestion: "What city were you born in?",
			SecurityAnswer:   "jaipur",
		},
		{
			Username:         "john.m",
			CustomerName:     "John Mathew",
			SecurityID:       "SEC-3377",
			MaskedCard:       "XXXX-XXXX-XXXX-7208",
			Amount:           15750.00,
			Merchant:         "SkyTravel Bookings",
			Location:         "Delhi",
			Timestamp:        "2025-11-15 23:05",
			SecurityQuestion: "What was the name of your first pet?",
			SecurityAnswer:   "sunset",
		},
	}
}

func scanCase(row *sql.Row) (*domain.FraudCase, error) {
	var c domain.FraudCase
	err := row.Scan(
		&c.ID, &c.Username, &c.CustomerName, &c.SecurityID, &c.MaskedCard, &c.Amount,
		&c.Merchant, &c.Location, &c.Timestamp, &c.SecurityQuestion, &c.SecurityAnswer,
		&c.Status, &c.OutcomeNote,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
