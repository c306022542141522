package database

import (
	"database/sql"
	"fmt"
)

func (s *MySql) prepareStmt(name, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.statements[name]; ok {
		return stmt, nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement [%s]: %w", name, err)
	}

	s.statements[name] = stmt
	return stmt, nil
}

func (s *MySql) closeStmt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, stmt := range s.statements {
		_ = stmt.Close()
		delete(s.statements, name)
	}
}

func (s *MySql) stmtSelectCodeExists() (*sql.Stmt, error) {
	query := `SELECT id FROM registrations WHERE referral_code = ? LIMIT 1`
	return s.prepareStmt("selectCodeExists", query)
}

func (s *MySql) stmtInsertRegistration() (*sql.Stmt, error) {
	query := `INSERT INTO registrations
		(id, full_name, email, phone, branch, city, country, referral_code, referral_code_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return s.prepareStmt("insertRegistration", query)
}

func (s *MySql) stmtCountStats() (*sql.Stmt, error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT city), COUNT(DISTINCT country) FROM registrations`
	return s.prepareStmt("countStats", query)
}

func (s *MySql) stmtCountByCountry() (*sql.Stmt, error) {
	query := `SELECT country, COUNT(*) AS total FROM registrations GROUP BY country ORDER BY total DESC, country`
	return s.prepareStmt("countByCountry", query)
}

func (s *MySql) stmtSelectRegistrations() (*sql.Stmt, error) {
	query := `SELECT id, full_name, email, phone, branch, city, country, referral_code, referral_code_used, created_at
		FROM registrations ORDER BY created_at DESC`
	return s.prepareStmt("selectRegistrations", query)
}
