package feature

import "testing"

func cityMatch(t *testing.T, id int64, home, away, city string) Match {
	t.Helper()
	m := simpleMatch(t, id, "2023-05-01", home, away, 0, 0)
	m.City = city
	return m
}

func TestTravelDistanceHomeCityForcedZero(t *testing.T) {
	t.Parallel()

	matches := []Match{cityMatch(t, 1, "Santos", "Flamengo", "Santos-SP")}
	travel := TravelDistances(matches, nil, nil)

	wantFloat(t, travel[1].Home, 0, "team in own city")
	if travel[1].Away == nil || *travel[1].Away <= 0 {
		t.Fatalf("visiting side must get a positive distance, got %+v", travel[1].Away)
	}
}

func TestTravelDistanceForcedZeroWithoutCoordinates(t *testing.T) {
	t.Parallel()

	// The club is unknown to every coordinate table, but the city field
	// names it, so the distance is still zero.
	matches := []Match{cityMatch(t, 1, "Operário", "Flamengo", "Operário-XX")}
	travel := TravelDistances(matches, nil, nil)

	wantFloat(t, travel[1].Home, 0, "unknown team in own city")
	// The away side has a known team but an unknown state code.
	wantNilFloat(t, travel[1].Away, "unknown state code")
}

func TestTravelDistanceNilWhenUnresolved(t *testing.T) {
	t.Parallel()

	matches := []Match{
		cityMatch(t, 1, "Flamengo", "Santos", ""),
		cityMatch(t, 2, "Remo", "Flamengo", "Belém-PA"),
	}
	travel := TravelDistances(matches, nil, nil)

	wantNilFloat(t, travel[1].Home, "empty city field")
	wantNilFloat(t, travel[2].Home, "team without coordinates")
	if travel[2].Away == nil {
		t.Fatalf("known team and state must resolve")
	}
}

func TestTravelDistanceUsesOverrides(t *testing.T) {
	t.Parallel()

	overrides := []TeamCoordinate{
		// Park an override on the match city itself.
		{Name: "Remo", City: "Belém", Lat: -1.45502, Lon: -48.5024},
	}
	matches := []Match{cityMatch(t, 1, "Remo", "Flamengo", "Belém-PA")}
	travel := TravelDistances(matches, overrides, nil)

	wantFloat(t, travel[1].Home, 0, "override resolves to the match city")
}

func TestTravelDistanceCityStateMapFallback(t *testing.T) {
	t.Parallel()

	cityStates := map[string]string{"Campinas": "SP"}
	matches := []Match{cityMatch(t, 1, "Grêmio", "Flamengo", "Campinas")}
	travel := TravelDistances(matches, nil, cityStates)

	if travel[1].Home == nil || *travel[1].Home <= 0 {
		t.Fatalf("city map must supply the state, got %+v", travel[1].Home)
	}
}
