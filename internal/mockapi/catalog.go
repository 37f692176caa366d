package mockapi

const (
	ModeTrain = "train"
	ModeBus   = "bus"
)

type Route struct {
	ID    string   `json:"routeId"`
	Mode  string   `json:"mode"`
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}

type Fare struct {
	RouteID  string  `json:"routeId"`
	FareType string  `json:"fareType"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

var routes = map[string][]Route{
	ModeTrain: {
		{ID: "EW", Mode: ModeTrain, Name: "East West Line", Stops: []string{"Pasir Ris", "Tampines", "City Hall", "Raffles Place", "Jurong East", "Tuas Link"}},
		{ID: "NS", Mode: ModeTrain, Name: "North South Line", Stops: []string{"Jurong East", "Woodlands", "Yishun", "Bishan", "City Hall", "Marina South Pier"}},
		{ID: "CC", Mode: ModeTrain, Name: "Circle Line", Stops: []string{"Dhoby Ghaut", "Bishan", "Buona Vista", "HarbourFront"}},
	},
	ModeBus: {
		{ID: "10", Mode: ModeBus, Name: "Bus 10", Stops: []string{"Tampines Int", "Bedok Int", "Marina Centre", "Kent Ridge Ter"}},
		{ID: "190", Mode: ModeBus, Name: "Bus 190", Stops: []string{"Choa Chu Kang Int", "Bukit Timah", "Orchard", "New Bridge Rd Ter"}},
	},
}

var fareTypes = []struct {
	name       string
	multiplier float64
}{
	{"ADULT", 1.0},
	{"STUDENT", 0.5},
	{"SENIOR", 0.4},
}

var baseFares = map[string]float64{ModeTrain: 2.10, ModeBus: 1.90}

func faresFor(mode string) []Fare {
	out := []Fare{}
	for _, r := range routes[mode] {
		for _, ft := range fareTypes {
			out = append(out, Fare{RouteID: r.ID, FareType: ft.name, Amount: roundCents(baseFares[mode] * ft.multiplier), Currency: "SGD"})
		}
	}
	return out
}

func findFare(mode, routeID, fareType string) (Fare, bool) {
	if fareType == "" {
		fareType = "ADULT"
	}
	for _, f := range faresFor(mode) {
		if f.RouteID == routeID && f.FareType == fareType {
			return f, true
		}
	}
	return Fare{}, false
}

// lookupFare searches both modes.
func lookupFare(routeID, fareType string) (Fare, bool) {
	for _, mode := range []string{ModeTrain, ModeBus} {
		if f, ok := findFare(mode, routeID, fareType); ok {
			return f, true
		}
	}
	return Fare{}, false
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
