package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carbonbuddy/models"
)

// EntryStore encapsule l'accès aux entrées journalières. Toutes les
// lectures triées le sont par date décroissante (la plus récente d'abord),
// c'est le contrat attendu par le calcul de streak et le backfill.
type EntryStore struct {
	db *gorm.DB
}

func NewEntryStore(db *gorm.DB) *EntryStore {
	return &EntryStore{db: db}
}

// FindAllDesc retourne tout l'historique d'un utilisateur, récent d'abord.
func (s *EntryStore) FindAllDesc(ctx context.Context, userID uint) ([]models.EmissionEntry, error) {
	var entries []models.EmissionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// FindRecent retourne au plus limit entrées, récentes d'abord.
func (s *EntryStore) FindRecent(ctx context.Context, userID uint, limit int) ([]models.EmissionEntry, error) {
	var entries []models.EmissionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// FindByDate retourne l'entrée d'un jour précis, ou nil si elle n'existe pas.
func (s *EntryStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*models.EmissionEntry, error) {
	var entry models.EmissionEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert écrit l'entrée du jour : insertion si absente, écrasement complet
// sinon. L'unicité (user_id, date) est portée par l'index composite.
func (s *EntryStore) Upsert(ctx context.Context, entry *models.EmissionEntry) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "date"},
		},
		UpdateAll: true,
	}).Create(entry).Error
}

// CreateManySkipDuplicates insère un lot d'entrées en ignorant celles dont
// le jour existe déjà. Utilisé par le backfill pour ne jamais écraser une
// vraie saisie.
func (s *EntryStore) CreateManySkipDuplicates(ctx context.Context, entries []models.EmissionEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "date"},
		},
		DoNothing: true,
	}).Create(&entries).Error
}

// SumTotalBetween agrège total_emissions sur [from, to).
func (s *EntryStore) SumTotalBetween(ctx context.Context, userID uint, from, to time.Time) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.EmissionEntry{}).
		Select("COALESCE(SUM(total_emissions), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Scan(&total).Error
	return total, err
}
