package models

import (
	"time"

	"gorm.io/gorm"
)

// EmissionEntry est la journée persistée d'un utilisateur : les saisies
// brutes plus les émissions calculées. Une seule ligne par (user, jour UTC),
// garantie par l'index composite ; une re-soumission écrase, jamais de
// doublon.
type EmissionEntry struct {
	gorm.Model
	UserID uint      `gorm:"uniqueIndex:idx_user_day" json:"userId"`
	Date   time.Time `gorm:"uniqueIndex:idx_user_day" json:"date"` // minuit UTC

	// Saisies brutes
	CarDistanceKms         float64 `json:"carDistanceKms"`
	CarType                string  `json:"carType"`
	PublicTransportKms     float64 `json:"publicTransportKms"`
	FlightKms              float64 `json:"flightKms"`
	CyclingWalkingKms      float64 `json:"cyclingWalkingKms"`
	OfficeHours            float64 `json:"officeHours"`
	ElectricityBill        float64 `json:"electricityBill"`
	EmissionFactor         float64 `json:"emissionFactor"`
	Diet                   string  `json:"diet"`
	FoodConsumed           float64 `json:"foodConsumed"`
	WaterBottlesConsumed   int     `json:"waterBottlesConsumed"`
	AteLocalOrSeasonalFood bool    `json:"ateLocalOrSeasonalFood"`
	PagesPrinted           int     `json:"pagesPrinted"`
	VideoCallHours         float64 `json:"videoCallHours"`
	CloudStorageGb         float64 `json:"cloudStorageGb"`

	// Émissions calculées, en kg CO2e
	TransportEmissions float64 `json:"transportEmissions"`
	EnergyEmissions    float64 `json:"energyEmissions"`
	FoodEmissions      float64 `json:"foodEmissions"`
	DigitalEmissions   float64 `json:"digitalEmissions"`
	TotalEmissions     float64 `json:"totalEmissions"`

	// Entrée synthétique créée par le backfill, jamais par l'utilisateur.
	AutoFilled bool `json:"autoFilled"`
}
