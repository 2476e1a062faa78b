package dashboard

import (
	"context"
	"math"
	"time"

	"carbonbuddy/emissions"
	"carbonbuddy/models"
	"carbonbuddy/store"
	"carbonbuddy/utils"
)

// Objectif hebdomadaire illustratif : en-dessous de 90 kg CO2e, chaque
// tranche de 2 kg économisée compte pour un arbre.
const weeklyGoalKg = 90.0

// Summary est le bloc synthétique affiché en tête du dashboard.
type Summary struct {
	ThisWeekEmissions float64 `json:"thisWeekEmissions"`
	MonthlyReduction  float64 `json:"monthlyReduction"`
	TreesSaved        int     `json:"treesSaved"`
	Streak            int     `json:"streak"`
}

// DayPoint est un point d'historique pour les graphiques.
type DayPoint struct {
	Date           time.Time `json:"date"`
	TotalEmissions float64   `json:"totalEmissions"`
}

// Overview est la réponse complète du dashboard, recalculée à chaque
// lecture depuis l'historique, jamais mise en cache.
type Overview struct {
	Summary        Summary          `json:"summary"`
	TodayEmissions emissions.Result `json:"todayEmissions"`
	AllEntries     []DayPoint       `json:"allEntries"`
	ThisMonthTotal float64          `json:"thisMonthTotal"`
	LastMonthTotal float64          `json:"lastMonthTotal"`
}

// Streak compte les jours calendaires UTC consécutifs avec une entrée, en
// remontant depuis la plus récente. Les entrées doivent être triées par
// date décroissante ; ce n'est pas re-vérifié ici.
//
// Le streak est "vivant" si la dernière entrée date d'aujourd'hui ou
// d'hier ; sinon il vaut 0.
func Streak(entries []models.EmissionEntry, today time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	today = utils.MidnightUTC(today)
	mostRecent := utils.MidnightUTC(entries[0].Date)

	diffDays := int(math.Round(today.Sub(mostRecent).Hours() / 24))
	if diffDays > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(entries); i++ {
		current := utils.MidnightUTC(entries[i-1].Date)
		previous := utils.MidnightUTC(entries[i].Date)
		if current.Sub(previous).Hours()/24 == 1 {
			streak++
		} else {
			// premier trou rencontré : le streak s'arrête là
			break
		}
	}
	return streak
}

// SundayWeekRange retourne la semaine courante [dimanche 00:00 UTC,
// dimanche suivant 00:00 UTC). C'est l'ancrage dimanche qui fait foi pour
// le total hebdomadaire, pas la semaine ISO.
func SundayWeekRange(now time.Time) (time.Time, time.Time) {
	day := utils.MidnightUTC(now)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// MonthRange retourne le mois calendaire UTC décalé de offset mois
// (0 = mois courant, -1 = mois précédent), borne haute exclusive.
func MonthRange(now time.Time, offset int) (time.Time, time.Time) {
	t := now.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	return start, start.AddDate(0, 1, 0)
}

// MonthlyReduction calcule le pourcentage de réduction mois contre mois.
// Positif = les émissions baissent. Vaut 0 quand le mois précédent est
// vide, pour éviter la division par zéro.
func MonthlyReduction(lastMonthTotal, thisMonthTotal float64) float64 {
	if lastMonthTotal <= 0 {
		return 0
	}
	return (lastMonthTotal - thisMonthTotal) / lastMonthTotal * 100
}

// TreesSaved convertit le total hebdomadaire en "arbres sauvés". Métrique
// illustrative, volontairement non bornée : une mauvaise semaine donne un
// nombre négatif.
func TreesSaved(thisWeekTotal float64) int {
	return int(math.Floor((weeklyGoalKg - thisWeekTotal) / 2))
}

// Service assemble l'Overview depuis le store.
type Service struct {
	entries *store.EntryStore
	now     func() time.Time
}

func NewService(entries *store.EntryStore) *Service {
	return &Service{
		entries: entries,
		now:     time.Now,
	}
}

// Summarize recalcule tout le dashboard d'un utilisateur. Toute erreur de
// stockage remonte telle quelle : pas de données partielles.
func (s *Service) Summarize(ctx context.Context, userID uint) (Overview, error) {
	var overview Overview
	now := s.now()

	allEntries, err := s.entries.FindAllDesc(ctx, userID)
	if err != nil {
		return overview, err
	}

	weekStart, weekEnd := SundayWeekRange(now)
	thisWeek, err := s.entries.SumTotalBetween(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return overview, err
	}

	thisMonthStart, thisMonthEnd := MonthRange(now, 0)
	thisMonth, err := s.entries.SumTotalBetween(ctx, userID, thisMonthStart, thisMonthEnd)
	if err != nil {
		return overview, err
	}

	lastMonthStart, lastMonthEnd := MonthRange(now, -1)
	lastMonth, err := s.entries.SumTotalBetween(ctx, userID, lastMonthStart, lastMonthEnd)
	if err != nil {
		return overview, err
	}

	today := utils.MidnightUTC(now)
	todayEntry, err := s.entries.FindByDate(ctx, userID, today)
	if err != nil {
		return overview, err
	}

	overview.Summary = Summary{
		ThisWeekEmissions: thisWeek,
		MonthlyReduction:  MonthlyReduction(lastMonth, thisMonth),
		TreesSaved:        TreesSaved(thisWeek),
		Streak:            Streak(allEntries, now),
	}
	if todayEntry != nil {
		overview.TodayEmissions = emissions.Result{
			TransportEmissions: todayEntry.TransportEmissions,
			EnergyEmissions:    todayEntry.EnergyEmissions,
			FoodEmissions:      todayEntry.FoodEmissions,
			DigitalEmissions:   todayEntry.DigitalEmissions,
			TotalEmissions:     todayEntry.TotalEmissions,
		}
	}
	overview.AllEntries = make([]DayPoint, 0, len(allEntries))
	for _, e := range allEntries {
		overview.AllEntries = append(overview.AllEntries, DayPoint{
			Date:           e.Date,
			TotalEmissions: e.TotalEmissions,
		})
	}
	overview.ThisMonthTotal = thisMonth
	overview.LastMonthTotal = lastMonth

	return overview, nil
}
