package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// truckRow is the relational shape of a truck record. Status and provenance
// are stored in wire form so the table reads the same as the other backends.
type truckRow struct {
	ID             string `gorm:"column:record_id;primaryKey;type:varchar(50)"`
	TruckNumber    string `gorm:"column:truck_number;type:varchar(50);index;not null"`
	DriverPhone    string `gorm:"column:driver_phone;type:varchar(30)"`
	Date           string `gorm:"column:entry_date;type:varchar(30);index"`
	EntryTime      string `gorm:"column:entry_time;type:varchar(30)"`
	VendorMaterial string `gorm:"column:vendor_material;type:varchar(255)"`
	Status         string `gorm:"column:status;type:varchar(30);not null"`
	UpdatedBy      string `gorm:"column:updated_by;type:varchar(30);not null"`
}

func (truckRow) TableName() string {
	return "truck_records"
}

// PostgresStore keeps the board in a Postgres table via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to Postgres and migrates the trucks table.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&truckRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate truck_records: %w", err)
	}

	log.Printf("✅ Connected to Postgres")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.TruckRecord, error) {
	var rows []truckRow
	if err := s.db.WithContext(ctx).Order("record_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}

	records := make([]models.TruckRecord, 0, len(rows))
	for _, row := range rows {
		record, err := rowToRecord(row)
		if err != nil {
			log.Printf("Warning: failed to parse truck %s: %v", row.ID, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.TruckRecord, error) {
	var row truckRow
	err := s.db.WithContext(ctx).First(&row, "record_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TruckRecord{}, ErrNotFound
	}
	if err != nil {
		return models.TruckRecord{}, fmt.Errorf("failed to get truck: %w", err)
	}
	return rowToRecord(row)
}

func (s *PostgresStore) Create(ctx context.Context, record models.TruckRecord) (string, error) {
	row := recordToRow(record)
	row.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to create truck: %w", err)
	}
	return row.ID, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, record models.TruckRecord) error {
	row := recordToRow(record)
	row.ID = id
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to update truck: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&truckRow{}, "record_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete truck: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func recordToRow(record models.TruckRecord) truckRow {
	return truckRow{
		ID:             record.ID,
		TruckNumber:    record.TruckNumber,
		DriverPhone:    record.DriverPhone,
		Date:           record.Date,
		EntryTime:      record.EntryTime,
		VendorMaterial: record.VendorMaterial,
		Status:         record.Status.Display(),
		UpdatedBy:      string(record.UpdatedBy),
	}
}

func rowToRecord(row truckRow) (models.TruckRecord, error) {
	status, err := models.ParseStatus(row.Status)
	if err != nil {
		return models.TruckRecord{}, fmt.Errorf("record %s: %w", row.ID, err)
	}
	return models.TruckRecord{
		ID:             row.ID,
		TruckNumber:    row.TruckNumber,
		DriverPhone:    row.DriverPhone,
		Date:           row.Date,
		EntryTime:      row.EntryTime,
		VendorMaterial: row.VendorMaterial,
		Status:         status,
		UpdatedBy:      models.Role(row.UpdatedBy),
	}, nil
}
