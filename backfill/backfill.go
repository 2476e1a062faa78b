package backfill

import (
	"context"
	"sync"
	"time"

	"carbonbuddy/models"
	"carbonbuddy/store"
	"carbonbuddy/utils"
)

// Nombre d'entrées récentes moyennées pour fabriquer les jours manquants.
const averageWindow = 6

// Backfiller comble les jours sans saisie entre la dernière entrée d'un
// utilisateur et aujourd'hui (exclu) avec des entrées synthétiques
// moyennées, marquées AutoFilled.
//
// Deux passes concurrentes pour le même utilisateur sont sérialisées par
// un verrou par utilisateur ; l'insertion ignore-doublons du store reste
// le filet de sécurité en dessous, pas un substitut.
type Backfiller struct {
	entries    *store.EntryStore
	maxGapDays int
	now        func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func New(entries *store.EntryStore, maxGapDays int) *Backfiller {
	if maxGapDays <= 0 {
		maxGapDays = 90
	}
	return &Backfiller{
		entries:    entries,
		maxGapDays: maxGapDays,
		now:        time.Now,
		locks:      make(map[uint]*sync.Mutex),
	}
}

// Run exécute une passe de backfill pour un utilisateur. Idempotent : une
// relance juste après une passe réussie n'écrit rien. Ne touche jamais à
// aujourd'hui ni au futur, n'écrase jamais une entrée existante.
func (b *Backfiller) Run(ctx context.Context, userID uint) error {
	lock := b.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	today := utils.MidnightUTC(b.now())

	// Snapshot unique des 6 dernières entrées AVANT toute écriture :
	// tous les jours comblés d'une même passe sont identiques.
	recent, err := b.entries.FindRecent(ctx, userID, averageWindow)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return nil
	}

	lastDate := utils.MidnightUTC(recent[0].Date)
	if !lastDate.Before(today) {
		return nil
	}

	avg := averageEmissions(recent)

	start := lastDate.AddDate(0, 0, 1)
	// trou borné : au-delà du plafond, les jours les plus anciens
	// restent vides plutôt que de générer un historique sans fin
	capStart := today.AddDate(0, 0, -b.maxGapDays)
	if start.Before(capStart) {
		start = capStart
	}

	var toCreate []models.EmissionEntry
	for day := start; day.Before(today); day = day.AddDate(0, 0, 1) {
		toCreate = append(toCreate, models.EmissionEntry{
			UserID:             userID,
			Date:               day,
			TransportEmissions: avg.transport,
			EnergyEmissions:    avg.energy,
			FoodEmissions:      avg.food,
			DigitalEmissions:   avg.digital,
			TotalEmissions:     avg.total,
			AutoFilled:         true,
		})
	}

	// insertion en un seul lot, les jours déjà présents sont ignorés
	return b.entries.CreateManySkipDuplicates(ctx, toCreate)
}

func (b *Backfiller) userLock(userID uint) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[userID] = lock
	}
	return lock
}

type averages struct {
	transport, energy, food, digital, total float64
}

func averageEmissions(entries []models.EmissionEntry) averages {
	var sum averages
	for _, e := range entries {
		sum.transport += e.TransportEmissions
		sum.energy += e.EnergyEmissions
		sum.food += e.FoodEmissions
		sum.digital += e.DigitalEmissions
		sum.total += e.TotalEmissions
	}
	n := float64(len(entries))
	return averages{
		transport: sum.transport / n,
		energy:    sum.energy / n,
		food:      sum.food / n,
		digital:   sum.digital / n,
		total:     sum.total / n,
	}
}
