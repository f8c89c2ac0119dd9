package feature

import (
	"math"
	"strings"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two points, rounded to
// two decimals. Symmetric, and exactly 0 for identical points.
func HaversineKm(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	latA := radians(a.Lat)
	latB := radians(b.Lat)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(latA)*math.Cos(latB)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))
	return round2(earthRadiusKm * c)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// builtinTeamPoints maps normalized team names to their home-city location.
var builtinTeamPoints = buildTeamPoints(map[string]Point{
	"Flamengo":            {-22.9068, -43.1729},
	"Fluminense":          {-22.9068, -43.1729},
	"Botafogo":            {-22.9068, -43.1729},
	"Vasco":               {-22.9068, -43.1729},
	"Palmeiras":           {-23.5505, -46.6333},
	"Corinthians":         {-23.5505, -46.6333},
	"São Paulo":           {-23.5505, -46.6333},
	"Santos":              {-23.9608, -46.3339},
	"Red Bull Bragantino": {-22.9519, -46.5419},
	"Grêmio":              {-30.0346, -51.2177},
	"Internacional":       {-30.0346, -51.2177},
	"Atlético-MG":         {-19.9167, -43.9345},
	"Cruzeiro":            {-19.9167, -43.9345},
	"América-MG":          {-19.9167, -43.9345},
	"Athletico-PR":        {-25.4290, -49.2671},
	"Coritiba":            {-25.4290, -49.2671},
	"Bahia":               {-12.9714, -38.5014},
	"Vitória":             {-12.9714, -38.5014},
	"Fortaleza":           {-3.7172, -38.5433},
	"Ceará":               {-3.7172, -38.5433},
	"Cuiabá":              {-15.6014, -56.0978},
	"Goiás":               {-16.6869, -49.2648},
	"Atlético-GO":         {-16.6869, -49.2648},
	"Sport":               {-8.0578, -34.8778},
	"Juventude":           {-29.1678, -51.1794},
	"Criciúma":            {-28.6775, -49.3703},
	"Avaí":                {-27.5954, -48.5480},
	"Chapecoense":         {-27.1004, -52.6152},
})

// BuiltinTeamHomeCities maps team names to their home city, used to seed
// the stored team table after a harvest.
var BuiltinTeamHomeCities = map[string]string{
	"Flamengo":            "Rio de Janeiro",
	"Fluminense":          "Rio de Janeiro",
	"Botafogo":            "Rio de Janeiro",
	"Vasco":               "Rio de Janeiro",
	"Palmeiras":           "São Paulo",
	"Corinthians":         "São Paulo",
	"São Paulo":           "São Paulo",
	"Santos":              "Santos",
	"Red Bull Bragantino": "Bragança Paulista",
	"Grêmio":              "Porto Alegre",
	"Internacional":       "Porto Alegre",
	"Atlético-MG":         "Belo Horizonte",
	"Cruzeiro":            "Belo Horizonte",
	"América-MG":          "Belo Horizonte",
	"Athletico-PR":        "Curitiba",
	"Coritiba":            "Curitiba",
	"Bahia":               "Salvador",
	"Vitória":             "Salvador",
	"Fortaleza":           "Fortaleza",
	"Ceará":               "Fortaleza",
	"Cuiabá":              "Cuiabá",
	"Goiás":               "Goiânia",
	"Atlético-GO":         "Goiânia",
	"Sport":               "Recife",
	"Juventude":           "Caxias do Sul",
	"Criciúma":            "Criciúma",
	"Avaí":                "Florianópolis",
	"Chapecoense":         "Chapecó",
}

// BuiltinTeamPoint returns the built-in home location for a team name.
func BuiltinTeamPoint(name string) (Point, bool) {
	p, ok := builtinTeamPoints[NormalizeTeamName(name)]
	return p, ok
}

// stateCapitalPoints locates a match city through its state's capital when
// no direct city coordinate is known.
var stateCapitalPoints = map[string]Point{
	"AC": {-9.97499, -67.8076},
	"AL": {-9.66599, -35.735},
	"AP": {0.034934, -51.0694},
	"AM": {-3.11866, -60.0212},
	"BA": {-12.9711, -38.5108},
	"CE": {-3.71722, -38.5431},
	"DF": {-15.7797, -47.9297},
	"ES": {-20.3155, -40.3128},
	"GO": {-16.6869, -49.2648},
	"MA": {-2.52972, -44.3028},
	"MT": {-15.601, -56.0974},
	"MS": {-20.4428, -54.6464},
	"MG": {-19.9209, -43.9378},
	"PA": {-1.45502, -48.5024},
	"PB": {-7.11532, -34.861},
	"PR": {-25.4284, -49.2733},
	"PE": {-8.05428, -34.8813},
	"PI": {-5.08921, -42.8016},
	"RJ": {-22.9068, -43.1729},
	"RN": {-5.795, -35.2094},
	"RS": {-30.0331, -51.23},
	"RO": {-8.76116, -63.9039},
	"RR": {2.81954, -60.6733},
	"SC": {-27.5945, -48.5477},
	"SP": {-23.5505, -46.6333},
	"SE": {-10.9111, -37.0717},
	"TO": {-10.1844, -48.3336},
}

func buildTeamPoints(raw map[string]Point) map[string]Point {
	out := make(map[string]Point, len(raw))
	for name, p := range raw {
		out[NormalizeTeamName(name)] = p
	}
	return out
}

// CoordinateResolver resolves team and match-city locations. Overrides win
// over the built-in tables; an unresolved name is a nil result, not an
// error.
type CoordinateResolver struct {
	overrides  map[string]Point
	cityStates map[string]string
}

func NewCoordinateResolver(overrides []TeamCoordinate, cityStates map[string]string) *CoordinateResolver {
	r := &CoordinateResolver{
		overrides:  make(map[string]Point, len(overrides)),
		cityStates: cityStates,
	}
	for _, o := range overrides {
		r.overrides[NormalizeTeamName(o.Name)] = Point{Lat: o.Lat, Lon: o.Lon}
	}
	return r
}

// Team resolves a team's home location: caller override first, built-in
// table second.
func (r *CoordinateResolver) Team(name string) (Point, bool) {
	key := NormalizeTeamName(name)
	if p, ok := r.overrides[key]; ok {
		return p, true
	}
	p, ok := builtinTeamPoints[key]
	return p, ok
}

// SplitCity separates a "City-XX" field into a city hint and state code.
// Without the suffix the state comes from the configured city→state map and
// the city hint stays empty.
func (r *CoordinateResolver) SplitCity(cityField string) (cityHint, stateHint string) {
	if idx := strings.LastIndex(cityField, "-"); idx >= 0 {
		return strings.TrimSpace(cityField[:idx]), strings.TrimSpace(cityField[idx+1:])
	}
	if state, ok := r.cityStates[cityField]; ok {
		return "", state
	}
	return "", ""
}

// City resolves a match city to its state capital's location.
func (r *CoordinateResolver) City(cityField string) (Point, bool) {
	_, stateHint := r.SplitCity(cityField)
	if stateHint == "" {
		return Point{}, false
	}
	p, ok := stateCapitalPoints[strings.ToUpper(stateHint)]
	return p, ok
}
