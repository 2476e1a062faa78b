package backfill

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
	"carbonbuddy/store"
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

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func loadEntries(t *testing.T, db *gorm.DB, userID uint) []models.EmissionEntry {
	t.Helper()
	var entries []models.EmissionEntry
	require.NoError(t, db.Where("user_id = ?", userID).Order("date ASC").Find(&entries).Error)
	return entries
}

func TestRunFillsGapWithAverages(t *testing.T) {
	db := newTestDB(t)
	seed := []models.EmissionEntry{
		{UserID: 1, Date: day(2026, 3, 12), TransportEmissions: 3, EnergyEmissions: 3, FoodEmissions: 3, DigitalEmissions: 3, TotalEmissions: 30},
		{UserID: 1, Date: day(2026, 3, 13), TransportEmissions: 2, EnergyEmissions: 2, FoodEmissions: 2, DigitalEmissions: 2, TotalEmissions: 20},
		{UserID: 1, Date: day(2026, 3, 14), TransportEmissions: 1, EnergyEmissions: 1, FoodEmissions: 1, DigitalEmissions: 1, TotalEmissions: 10},
	}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))

	entries := loadEntries(t, db, 1)
	require.Len(t, entries, 6) // 3 réelles + 15, 16, 17 mars

	// tous les jours synthétiques d'une même passe sont identiques :
	// la moyenne est figée avant la boucle
	for _, e := range entries[3:] {
		assert.True(t, e.AutoFilled)
		assert.InDelta(t, 2, e.TransportEmissions, 1e-9) // (3+2+1)/3
		assert.InDelta(t, 20, e.TotalEmissions, 1e-9)    // (30+20+10)/3
	}
	assert.Equal(t, day(2026, 3, 15), entries[3].Date.UTC())
	assert.Equal(t, day(2026, 3, 17), entries[5].Date.UTC())
}

func TestRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seed := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 14), TotalEmissions: 12}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))
	first := loadEntries(t, db, 1)
	require.Len(t, first, 4)

	// relance immédiate : aucun doublon, aucun écrasement
	require.NoError(t, b.Run(context.Background(), 1))
	second := loadEntries(t, db, 1)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestRunNoEntriesIsNoop(t *testing.T) {
	db := newTestDB(t)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))
	assert.Empty(t, loadEntries(t, db, 1))
}

func TestRunUpToDateIsNoop(t *testing.T) {
	db := newTestDB(t)
	seed := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 18), TotalEmissions: 5}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))
	assert.Len(t, loadEntries(t, db, 1), 1)
}

func TestRunNeverTouchesTodayOrFuture(t *testing.T) {
	db := newTestDB(t)
	seed := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 16), TotalEmissions: 8}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 23, 30, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))

	entries := loadEntries(t, db, 1)
	require.Len(t, entries, 2) // seul le 17 est comblé
	last := entries[len(entries)-1]
	assert.Equal(t, day(2026, 3, 17), last.Date.UTC())
}

func TestRunCapsGapLength(t *testing.T) {
	db := newTestDB(t)
	seed := models.EmissionEntry{UserID: 1, Date: day(2026, 3, 1), TotalEmissions: 6}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 2)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))

	entries := loadEntries(t, db, 1)
	// seuls les 2 derniers jours du trou sont comblés, le reste est laissé vide
	require.Len(t, entries, 3)
	assert.Equal(t, day(2026, 3, 16), entries[1].Date.UTC())
	assert.Equal(t, day(2026, 3, 17), entries[2].Date.UTC())
}

func TestRunIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	seed := []models.EmissionEntry{
		{UserID: 1, Date: day(2026, 3, 16), TotalEmissions: 10},
		{UserID: 2, Date: day(2026, 3, 17), TotalEmissions: 99},
	}
	require.NoError(t, db.Create(&seed).Error)

	b := New(store.NewEntryStore(db), 90)
	b.now = fixedNow(time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC))

	require.NoError(t, b.Run(context.Background(), 1))

	// l'utilisateur 2 n'a pas bougé
	assert.Len(t, loadEntries(t, db, 2), 1)
	filled := loadEntries(t, db, 1)
	require.Len(t, filled, 2)
	assert.InDelta(t, 10, filled[1].TotalEmissions, 1e-9)
}
