package emissions

// Entrées brutes d'une journée, telles que soumises par le frontend.
// Tous les champs numériques absents valent zéro ; les enums absents
// valent "" et coupent la contribution correspondante.

type TransportInput struct {
	CarDistanceKms     float64 `json:"carDistanceKms"`
	CarType            string  `json:"carType"`
	PublicTransportKms float64 `json:"publicTransportKms"`
	FlightKms          float64 `json:"flightKms"`
	CyclingWalkingKms  float64 `json:"cyclingWalkingKms"`
}

type EnergyInput struct {
	OfficeHours     float64 `json:"officeHours"`
	ElectricityBill float64 `json:"electricityBill"`
	// Facteur du réseau électrique en kg CO2e / kWh. Zéro = non fourni,
	// le calcul retombe alors sur DefaultGridFactor.
	EmissionFactor float64 `json:"emissionFactor"`
}

type FoodInput struct {
	Diet                   string  `json:"diet"`
	FoodConsumed           float64 `json:"foodConsumed"` // kg, multiplicateur de la base journalière
	WaterBottlesConsumed   int     `json:"waterBottlesConsumed"`
	AteLocalOrSeasonalFood bool    `json:"ateLocalOrSeasonalFood"`
}

type DigitalInput struct {
	PagesPrinted   int     `json:"pagesPrinted"`
	VideoCallHours float64 `json:"videoCallHours"`
	CloudStorageGb float64 `json:"cloudStorageGb"`
}

type ActivityInput struct {
	Transport TransportInput `json:"transport"`
	Energy    EnergyInput    `json:"energy"`
	Food      FoodInput      `json:"food"`
	Digital   DigitalInput   `json:"digital"`
}

// Result ventile les émissions d'une journée par catégorie, en kg CO2e.
// TotalEmissions est toujours la somme exacte des quatre catégories.
type Result struct {
	TransportEmissions float64 `json:"transportEmissions"`
	EnergyEmissions    float64 `json:"energyEmissions"`
	FoodEmissions      float64 `json:"foodEmissions"`
	DigitalEmissions   float64 `json:"digitalEmissions"`
	TotalEmissions     float64 `json:"totalEmissions"`
}

// Calculator convertit les saisies d'une journée en kg CO2e.
// Aucune I/O, aucune erreur possible : même entrée, même sortie.
type Calculator struct {
	f Factors
}

func NewCalculator(f Factors) *Calculator {
	return &Calculator{f: f}
}

func (c *Calculator) FactorsVersion() string {
	return c.f.Version
}

// Calculate applique la table de facteurs à une journée de saisies.
//
// Particularités assumées :
//   - la voiture ne compte que si le type ET une distance positive sont
//     fournis (pas de motorisation par défaut) ;
//   - idem pour le régime alimentaire (pas de régime par défaut) ;
//   - l'énergie additionne les heures de bureau converties en kWh ET le
//     montant de la facture d'électricité, tous deux multipliés par le
//     même facteur réseau. Ce double comptage est un choix de modèle
//     historique : le corriger fausserait toutes les comparaisons passées.
//
// Les valeurs négatives ne sont pas rejetées ici, la validation physique
// appartient à l'appelant.
func (c *Calculator) Calculate(in ActivityInput) Result {
	var transport float64
	if in.Transport.CarType != "" && in.Transport.CarDistanceKms > 0 {
		transport += in.Transport.CarDistanceKms * c.f.Car[in.Transport.CarType]
	}
	transport += in.Transport.PublicTransportKms * c.f.PublicTransportKm
	transport += in.Transport.FlightKms * c.f.FlightKm
	transport += in.Transport.CyclingWalkingKms * c.f.CyclingWalkingKm

	grid := in.Energy.EmissionFactor
	if grid == 0 {
		grid = c.f.DefaultGridFactor
	}
	energy := in.Energy.OfficeHours*c.f.KWhPerOfficeHour*grid +
		in.Energy.ElectricityBill*grid

	var food float64
	if in.Food.Diet != "" {
		food += c.f.Diet[in.Food.Diet] * in.Food.FoodConsumed
	}
	food += float64(in.Food.WaterBottlesConsumed) * c.f.WaterBottle
	if in.Food.AteLocalOrSeasonalFood {
		food *= 1 - c.f.LocalFoodReduction
	}

	digital := float64(in.Digital.PagesPrinted)*c.f.PrintedPage +
		in.Digital.VideoCallHours*c.f.VideoCallHour +
		in.Digital.CloudStorageGb*c.f.CloudStorageGBDay

	return Result{
		TransportEmissions: transport,
		EnergyEmissions:    energy,
		FoodEmissions:      food,
		DigitalEmissions:   digital,
		TotalEmissions:     transport + energy + food + digital,
	}
}
