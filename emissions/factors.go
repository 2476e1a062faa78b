package emissions

// Types de motorisation acceptés pour la voiture.
const (
	CarTypePetrol   = "PETROL"
	CarTypeDiesel   = "DIESEL"
	CarTypeHybrid   = "HYBRID"
	CarTypeElectric = "ELECTRIC"
)

// Régimes alimentaires acceptés.
const (
	DietVegan      = "VEGAN"
	DietVegetarian = "VEGETARIAN"
	DietMixed      = "MIXED"
	DietHeavyMeat  = "HEAVY_MEAT"
)

// Factors regroupe tous les coefficients d'émission utilisés par le
// calculateur. La table est figée : changer un facteur = livrer une
// nouvelle version, jamais de mutation à chaud.
type Factors struct {
	Version string

	// Transport, en kg CO2e par km.
	Car                map[string]float64
	PublicTransportKm  float64
	FlightKm           float64
	CyclingWalkingKm   float64

	// Énergie.
	KWhPerOfficeHour  float64 // kWh consommés par heure de bureau
	DefaultGridFactor float64 // kg CO2e / kWh si non fourni par l'utilisateur

	// Alimentation.
	Diet               map[string]float64 // base journalière en kg CO2e
	WaterBottle        float64            // par bouteille
	LocalFoodReduction float64            // remise multiplicative (0.12 = -12%)

	// Numérique.
	PrintedPage       float64
	VideoCallHour     float64
	CloudStorageGBDay float64
}

// DefaultFactors retourne la table courante.
// Sources : moyennes représentatives EPA / IPCC.
func DefaultFactors() Factors {
	return Factors{
		Version: "carbonbuddy-v2",

		Car: map[string]float64{
			CarTypePetrol:   0.179,
			CarTypeDiesel:   0.173,
			CarTypeHybrid:   0.126,
			CarTypeElectric: 0.035, // basé sur le mix électrique moyen, pas zéro
		},
		PublicTransportKm: 0.015,
		FlightKm:          0.121,
		CyclingWalkingKm:  0.0005,

		KWhPerOfficeHour:  0.25,
		DefaultGridFactor: 0.82,

		Diet: map[string]float64{
			DietHeavyMeat:  13.88,
			DietMixed:      3.26,
			DietVegetarian: 1.80,
			DietVegan:      1.35,
		},
		WaterBottle:        0.021, // bouteille plastique 0.5L (production + transport)
		LocalFoodReduction: 0.12,

		PrintedPage:       0.005,
		VideoCallHour:     0.060,
		CloudStorageGBDay: 0.0003,
	}
}
