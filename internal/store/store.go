/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package store persists a build-history ledger: one row per cube the orchestrator
// produces, recording its name, instrument, coordinate system, output type, input count,
// and outcome. It exists purely as an audit trail alongside the cube file itself; nothing
// downstream of a build reads it back to influence reconstruction.
package store

/*****************************************************************************************************************/

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*****************************************************************************************************************/

// BuildRecord is one completed (or failed) cube build.
type BuildRecord struct {
	ID uint `gorm:"primaryKey"`

	BuildID     string `gorm:"uniqueIndex;size:32"` // ULID
	CubeName    string `gorm:"index"`
	Instrument  string
	CoordSystem string
	OutputType  string
	InputCount  int

	Succeeded    bool
	ErrorMessage string

	CreatedAt time.Time
}

/*****************************************************************************************************************/

// Store wraps a gorm DB handle open against a single sqlite file.
type Store struct {
	db *gorm.DB
}

/*****************************************************************************************************************/

// Open opens (creating if necessary) a sqlite-backed ledger at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&BuildRecord{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

/*****************************************************************************************************************/

// Record inserts one build-history row, stamping CreatedAt if the caller left it zero.
func (s *Store) Record(rec BuildRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return s.db.Create(&rec).Error
}

/*****************************************************************************************************************/

// RecentForCube returns the most recent build records for a given cube name, newest first,
// capped at limit rows.
func (s *Store) RecentForCube(cubeName string, limit int) ([]BuildRecord, error) {
	var records []BuildRecord
	err := s.db.Where("cube_name = ?", cubeName).Order("created_at desc").Limit(limit).Find(&records).Error
	return records, err
}

/*****************************************************************************************************************/

// Close releases the underlying sqlite connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

/*****************************************************************************************************************/
