package services

import (
	"context"
	"route-refiner/internal/adapters/distance"
	"route-refiner/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStopProvider() *distance.MockDistanceProvider {
	return distance.NewMockDistanceProvider(distance.Symmetric([]distance.MockPair{
		{From: "HUB", To: "A", Meters: 1000, Seconds: 300},
		{From: "HUB", To: "B", Meters: 2000, Seconds: 600},
		{From: "HUB", To: "C", Meters: 1500, Seconds: 450},
		{From: "A", To: "B", Meters: 800, Seconds: 240},
		{From: "A", To: "C", Meters: 700, Seconds: 210},
		{From: "B", To: "C", Meters: 900, Seconds: 270},
	}))
}

func TestRoutePlannerPlanRoute(t *testing.T) {
	packages := []*domain.Package{
		{PackageID: 1, Destination: "A"},
		{PackageID: 2, Destination: "B"},
		{PackageID: 3, Destination: "C"},
	}
	depart := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	plan, err := PlanRoute(context.Background(), 1, depart, "HUB", packages, threeStopProvider(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "B"}, stopNames(plan))
	assert.Equal(t, 780, plan.TotalDurationSeconds)
	assert.Equal(t, 2600, plan.TotalDistanceMeters)
	assert.Equal(t, depart.Add(510*time.Second), plan.Stops[1].ArriveAt)
}

func TestRoutePlannerReusesFetchedLegs(t *testing.T) {
	packages := []*domain.Package{
		{PackageID: 1, Destination: "A"},
		{PackageID: 2, Destination: "B"},
		{PackageID: 3, Destination: "C"},
	}
	provider := threeStopProvider()

	plan, err := PlanRoute(context.Background(), 1, time.Time{}, "HUB", packages, provider, true)
	require.NoError(t, err)
	assert.Equal(t, 4600, plan.TotalDistanceMeters)

	// 3 + 2 + 1 candidate lookups, then only the return leg is new.
	assert.Equal(t, 7, provider.Calls())
}

func TestRoutePlannerPlanTruckRoute(t *testing.T) {
	truck := domain.NewTruck(7, 3, "HUB")
	require.NoError(t, truck.LoadMultiple([]*domain.Package{
		{PackageID: 1, Destination: "B"},
		{PackageID: 2, Destination: "C"},
	}))

	plan, err := PlanTruckRoute(context.Background(), truck, time.Time{}, threeStopProvider(), false)
	require.NoError(t, err)
	assert.Equal(t, 7, plan.TruckID)
	assert.Equal(t, []string{"C", "B"}, stopNames(plan))

	_, err = PlanTruckRoute(context.Background(), nil, time.Time{}, threeStopProvider(), false)
	require.Error(t, err)

	_, err = PlanTruckRoute(context.Background(), domain.NewTruck(8, 1, ""), time.Time{}, threeStopProvider(), false)
	require.ErrorContains(t, err, "truck 8 startLocation must be non-empty")

	_, err = PlanRoute(context.Background(), 1, time.Time{}, "HUB", nil, nil, false)
	require.Error(t, err)
}
