package records

import (
	"context"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Repository persists submitted records.
type Repository interface {
	CreateWaitlistEntry(ctx context.Context, entry *WaitlistEntry) error
	CreateOrderEntry(ctx context.Context, entry *OrderEntry) error
	CreateSelection(ctx context.Context, sel *Selection) error
	CreateShippingDetail(ctx context.Context, detail *ShippingDetail) error

	ListWaitlist(ctx context.Context) ([]WaitlistEntry, error)
	ListOrders(ctx context.Context) ([]OrderEntry, error)
	ListShippingDetails(ctx context.Context) ([]ShippingDetail, error)
}

type repository struct {
	db *gorm.DB
}

// OpenDB boots the sqlite database backing the stub and migrates it.
func OpenDB(path string) (*gorm.DB, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening records db: %w", err)
	}
	if err := db.AutoMigrate(&WaitlistEntry{}, &OrderEntry{}, &Selection{}, &ShippingDetail{}); err != nil {
		return nil, fmt.Errorf("migrating records db: %w", err)
	}
	return db, nil
}

// NewRepository builds a records repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWaitlistEntry(ctx context.Context, entry *WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) CreateOrderEntry(ctx context.Context, entry *OrderEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) CreateSelection(ctx context.Context, sel *Selection) error {
	return r.db.WithContext(ctx).Create(sel).Error
}

func (r *repository) CreateShippingDetail(ctx context.Context, detail *ShippingDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

func (r *repository) ListWaitlist(ctx context.Context) ([]WaitlistEntry, error) {
	var entries []WaitlistEntry
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListOrders(ctx context.Context) ([]OrderEntry, error) {
	var entries []OrderEntry
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListShippingDetails(ctx context.Context) ([]ShippingDetail, error) {
	var details []ShippingDetail
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}
