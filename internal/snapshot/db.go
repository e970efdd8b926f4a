package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionSnapshot struct {
	Code      string `gorm:"primaryKey;size:12"`
	Data      []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (sessionSnapshot) TableName() string { return "session_snapshots" }

// DBStore persists snapshots in Postgres, for deployments where the
// host process can be rescheduled onto another machine between writes.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(dsn string) (*DBStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.AutoMigrate(&sessionSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}
	return &DBStore{db: db}, nil
}

func (st *DBStore) Save(code string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	row := sessionSnapshot{Code: code, Data: data, UpdatedAt: time.Now()}
	err = st.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (st *DBStore) Load(code string) (Record, bool, error) {
	var row sessionSnapshot
	err := st.db.First(&row, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(row.Data, &rec); err != nil {
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (st *DBStore) Delete(code string) error {
	return st.db.Delete(&sessionSnapshot{}, "code = ?", code).Error
}
