package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carbonbuddy/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// une seule connexion : chaque connexion sqlite ":memory:" aurait
	// sa propre base vide
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.EmissionEntry{}))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func countEntries(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.EmissionEntry{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestUpsertSameDayOverwrites(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)
	ctx := context.Background()

	first := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 18), TotalEmissions: 10, Diet: "MIXED"}
	require.NoError(t, s.Upsert(ctx, &first))

	// re-soumission du même jour : écrasement, pas de doublon
	second := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 18), TotalEmissions: 25, Diet: "VEGAN"}
	require.NoError(t, s.Upsert(ctx, &second))

	assert.EqualValues(t, 1, countEntries(t, db, 1))

	stored, err := s.FindByDate(ctx, 1, day(2026, 3, 18))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 25, stored.TotalEmissions, 1e-9)
	assert.Equal(t, "VEGAN", stored.Diet)
}

func TestUpsertDistinctDaysAndUsers(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &models.EmissionEntry{UserID: 1, Date: day(2026, 3, 17)}))
	require.NoError(t, s.Upsert(ctx, &models.EmissionEntry{UserID: 1, Date: day(2026, 3, 18)}))
	require.NoError(t, s.Upsert(ctx, &models.EmissionEntry{UserID: 2, Date: day(2026, 3, 18)}))

	assert.EqualValues(t, 2, countEntries(t, db, 1))
	assert.EqualValues(t, 1, countEntries(t, db, 2))
}

func TestCreateManySkipDuplicates(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)
	ctx := context.Background()

	existing := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 16), TotalEmissions: 50}
	require.NoError(t, db.Create(&existing).Error)

	batch := []models.EmissionEntry{
		{UserID: 1, Date: day(2026, 3, 15), TotalEmissions: 5, AutoFilled: true},
		{UserID: 1, Date: day(2026, 3, 16), TotalEmissions: 5, AutoFilled: true}, // déjà présent
		{UserID: 1, Date: day(2026, 3, 17), TotalEmissions: 5, AutoFilled: true},
	}
	require.NoError(t, s.CreateManySkipDuplicates(ctx, batch))

	assert.EqualValues(t, 3, countEntries(t, db, 1))

	// l'entrée réelle n'a pas été écrasée par le doublon synthétique
	stored, err := s.FindByDate(ctx, 1, day(2026, 3, 16))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.InDelta(t, 50, stored.TotalEmissions, 1e-9)
	assert.False(t, stored.AutoFilled)
}

func TestCreateManySkipDuplicatesEmptyBatch(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)

	require.NoError(t, s.CreateManySkipDuplicates(context.Background(), nil))
}

func TestFindAllDescOrder(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)

	seed := []models.EmissionEntry{
		{UserID: 1, Date: day(2026, 3, 15)},
		{UserID: 1, Date: day(2026, 3, 18)},
		{UserID: 1, Date: day(2026, 3, 16)},
	}
	require.NoError(t, db.Create(&seed).Error)

	entries, err := s.FindAllDesc(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, day(2026, 3, 18), entries[0].Date.UTC())
	assert.Equal(t, day(2026, 3, 16), entries[1].Date.UTC())
	assert.Equal(t, day(2026, 3, 15), entries[2].Date.UTC())
}

func TestFindRecentLimit(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)

	var seed []models.EmissionEntry
	for i := 0; i < 10; i++ {
		seed = append(seed, models.EmissionEntry{UserID: 1, Date: day(2026, 3, 1+i)})
	}
	require.NoError(t, db.Create(&seed).Error)

	entries, err := s.FindRecent(context.Background(), 1, 6)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, day(2026, 3, 10), entries[0].Date.UTC())
}

func TestFindByDateMissing(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)

	entry, err := s.FindByDate(context.Background(), 1, day(2026, 3, 18))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSumTotalBetween(t *testing.T) {
	db := newTestDB(t)
	s := NewEntryStore(db)
	ctx := context.Background()

	seed := []models.EmissionEntry{
		{UserID: 1, Date: day(2026, 3, 14), TotalEmissions: 7},  // avant la fenêtre
		{UserID: 1, Date: day(2026, 3, 15), TotalEmissions: 10}, // borne basse incluse
		{UserID: 1, Date: day(2026, 3, 18), TotalEmissions: 20},
		{UserID: 1, Date: day(2026, 3, 22), TotalEmissions: 40}, // borne haute exclue
		{UserID: 2, Date: day(2026, 3, 18), TotalEmissions: 500},
	}
	require.NoError(t, db.Create(&seed).Error)

	total, err := s.SumTotalBetween(ctx, 1, day(2026, 3, 15), day(2026, 3, 22))
	require.NoError(t, err)
	assert.InDelta(t, 30, total, 1e-9)

	// fenêtre vide
	total, err = s.SumTotalBetween(ctx, 1, day(2026, 5, 1), day(2026, 6, 1))
	require.NoError(t, err)
	assert.Zero(t, total)
}
