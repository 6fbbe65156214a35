package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"market_sim/internal/domain"
)

// Storage persists executed trades to SQLite so runs can be analysed
// after the fact (per-participant history, volume) without reparsing
// the deal log.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the trade database at path. An empty
// path selects a per-user default location.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		var err error
		path, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.Trade{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

func defaultDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "MarketSim", "data", "market_sim.db"), nil
}

// Record inserts one executed trade. Satisfies engine.TradeRecorder.
func (s *Storage) Record(t *domain.Trade) error {
	return s.db.Create(t).Error
}

// TradeCount returns the number of recorded trades.
func (s *Storage) TradeCount() (int64, error) {
	var count int64
	err := s.db.Model(&domain.Trade{}).Count(&count).Error
	return count, err
}

// TradesForParticipant returns all trades the given participant took
// part in, on either side, in execution order.
func (s *Storage) TradesForParticipant(id string) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.
		Where("buyer_id = ? OR seller_id = ?", id, id).
		Order("seq").
		Find(&trades).Error
	return trades, err
}

// LastTrades returns the n most recent trades, newest first.
func (s *Storage) LastTrades(n int) ([]domain.Trade, error) {
	var trades []domain.Trade
	err := s.db.Order("seq DESC").Limit(n).Find(&trades).Error
	return trades, err
}
