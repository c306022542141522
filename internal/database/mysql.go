package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"reunion/entity"
	"reunion/internal/config"
)

const (
	keyEmail        = "uq_email"
	keyReferralCode = "uq_referral_code"

	duplicateEntry = 1062
)

// MySql is the production registrations store. The uniqueness constraints
// on email and referral_code live here and are the final authority against
// the issuer's check-then-insert race.
type MySql struct {
	db         *sql.DB
	statements map[string]*sql.Stmt
	mu         sync.Mutex
}

func NewSQLClient(conf *config.Config) (*MySql, error) {
	if !conf.MySQL.Enabled {
		return nil, fmt.Errorf("mysql is disabled in configuration")
	}
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		conf.MySQL.User, conf.MySQL.Password, conf.MySQL.Host, conf.MySQL.Port, conf.MySQL.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// wait for the database to come up
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(10 * time.Second)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &MySql{
		db:         db,
		statements: make(map[string]*sql.Stmt),
	}

	if err = sdb.createSchema(); err != nil {
		return nil, err
	}

	return sdb, nil
}

func (s *MySql) createSchema() error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS registrations (
		id CHAR(36) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		branch VARCHAR(64) NOT NULL,
		city VARCHAR(128) NOT NULL,
		country VARCHAR(128) NOT NULL,
		referral_code VARCHAR(16) NOT NULL,
		referral_code_used VARCHAR(64) NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY %s (email),
		UNIQUE KEY %s (referral_code)
	)`, keyEmail, keyReferralCode)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	return nil
}

func (s *MySql) Close() {
	s.closeStmt()
	_ = s.db.Close()
}

func (s *MySql) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	stmt, err := s.stmtSelectCodeExists()
	if err != nil {
		return false, err
	}
	var id string
	err = stmt.QueryRowContext(ctx, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select referral code: %w", err)
	}
	return true, nil
}

// CreateRegistration inserts exactly one row or nothing. Uniqueness
// violations and unobserved outcomes are reported through the entity error
// taxonomy so the pipeline can branch on the kind.
func (s *MySql) CreateRegistration(ctx context.Context, reg *entity.Registration) error {
	stmt, err := s.stmtInsertRegistration()
	if err != nil {
		return err
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC().Truncate(time.Second)
	codeUsed := sql.NullString{String: reg.ReferralCodeUsed, Valid: reg.ReferralCodeUsed != ""}

	_, err = stmt.ExecContext(ctx,
		id,
		reg.FullName,
		reg.Email,
		reg.Phone,
		reg.Branch,
		reg.City,
		reg.Country,
		reg.ReferralCode,
		codeUsed,
		createdAt,
	)
	if err != nil {
		return classifyInsertError(err)
	}

	reg.Id = id
	reg.CreatedAt = createdAt
	return nil
}

func (s *MySql) CountStats(ctx context.Context) (*entity.Stats, error) {
	stmt, err := s.stmtCountStats()
	if err != nil {
		return nil, err
	}
	var stats entity.Stats
	err = stmt.QueryRowContext(ctx).Scan(&stats.Registrations, &stats.Cities, &stats.Countries)
	if err != nil {
		return nil, fmt.Errorf("count stats: %w", err)
	}
	return &stats, nil
}

func (s *MySql) CountByCountry(ctx context.Context) ([]*entity.CountryCount, error) {
	stmt, err := s.stmtCountByCountry()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by country: %w", err)
	}
	defer rows.Close()

	var points []*entity.CountryCount
	for rows.Next() {
		var point entity.CountryCount
		if err = rows.Scan(&point.Country, &point.Count); err != nil {
			return nil, err
		}
		points = append(points, &point)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *MySql) ListRegistrations(ctx context.Context) ([]*entity.Registration, error) {
	stmt, err := s.stmtSelectRegistrations()
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("select registrations: %w", err)
	}
	defer rows.Close()

	var regs []*entity.Registration
	for rows.Next() {
		var reg entity.Registration
		var codeUsed sql.NullString
		if err = rows.Scan(
			&reg.Id,
			&reg.FullName,
			&reg.Email,
			&reg.Phone,
			&reg.Branch,
			&reg.City,
			&reg.Country,
			&reg.ReferralCode,
			&codeUsed,
			&reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		reg.ReferralCodeUsed = codeUsed.String
		regs = append(regs, &reg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func classifyInsertError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// the insert may have landed; the response was never observed
		return fmt.Errorf("insert registration: %w", entity.ErrUnknownOutcome)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == duplicateEntry {
		switch {
		case strings.Contains(myErr.Message, keyEmail):
			return entity.ErrDuplicateEmail
		case strings.Contains(myErr.Message, keyReferralCode):
			return entity.ErrDuplicateReferralCode
		}
	}
	message := ""
	if myErr != nil {
		message = myErr.Message
	}
	return &entity.StoreError{Message: message, Err: err}
}
