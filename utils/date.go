package utils

import "time"

// MidnightUTC ramène un instant au début de son jour calendaire UTC.
// Toutes les dates d'entrées sont normalisées ainsi avant stockage ou
// comparaison.
func MidnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
