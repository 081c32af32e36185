package services

import (
	"context"
	"route-refiner/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopNames(plan *domain.RoutePlan) []string {
	names := make([]string, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		names = append(names, s.Destination)
	}
	return names
}

func TestNearestNeighborRoute(t *testing.T) {
	depart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	table := pairwiseFor(crossingRoute)

	truck := domain.NewTruck(1, 10, "HUB")
	require.NoError(t, truck.LoadMultiple(packagesFor(crossingRoute)))

	plan, err := NearestNeighborRoute(context.Background(), truck, depart, table, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"E", "B", "C", "D", "A"}, stopNames(plan))
	assert.Equal(t, 2700, plan.TotalDistanceMeters)
	assert.Equal(t, 270, plan.TotalDurationSeconds)
	assert.Equal(t, depart.Add(20*time.Second), plan.Stops[0].ArriveAt)
	assert.Equal(t, depart.Add(270*time.Second), plan.Stops[4].ArriveAt)
	assert.Equal(t, []int{5}, plan.Stops[0].PackageIDs)
	assert.False(t, plan.Refined)

	closed, err := NearestNeighborRoute(context.Background(), truck, depart, table, true)
	require.NoError(t, err)
	assert.Equal(t, 3600, closed.TotalDistanceMeters)
	assert.Equal(t, 360, closed.TotalDurationSeconds)
	assert.Equal(t, plan.Stops, closed.Stops, "return leg does not change stop times")
}

func TestNearestNeighborRouteGroupsPackagesByDestination(t *testing.T) {
	truck := domain.NewTruck(2, 10, "HUB")
	require.NoError(t, truck.LoadMultiple([]*domain.Package{
		{PackageID: 7, Destination: "B"},
		{PackageID: 3, Destination: "E"},
		{PackageID: 9, Destination: "B"},
	}))

	plan, err := NearestNeighborRoute(context.Background(), truck, time.Time{}, pairwiseFor(crossingRoute), false)
	require.NoError(t, err)

	require.Equal(t, []string{"E", "B"}, stopNames(plan))
	assert.Equal(t, []int{7, 9}, plan.Stops[1].PackageIDs)
	assert.Equal(t, 2, plan.TruckID)
}

func TestNearestNeighborRouteTiesPickSmallestName(t *testing.T) {
	truck := domain.NewTruck(1, 10, "HUB")
	require.NoError(t, truck.LoadMultiple([]*domain.Package{
		{PackageID: 1, Destination: "Y"},
		{PackageID: 2, Destination: "X"},
	}))
	table := pairwiseFor([]gridPoint{{"HUB", 0, 0}, {"X", 1, 0}, {"Y", 0, 1}})

	plan, err := NearestNeighborRoute(context.Background(), truck, time.Time{}, table, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, stopNames(plan))
}

func TestNearestNeighborRouteErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NearestNeighborRoute(ctx, nil, time.Time{}, PairwiseDistances{}, false)
	require.Error(t, err)

	noStart := domain.NewTruck(1, 1, "")
	_, err = NearestNeighborRoute(ctx, noStart, time.Time{}, PairwiseDistances{}, false)
	require.Error(t, err)

	truck := domain.NewTruck(1, 1, "HUB")
	require.NoError(t, truck.Load(&domain.Package{PackageID: 1, Destination: "NOWHERE"}))
	_, err = NearestNeighborRoute(ctx, truck, time.Time{}, pairwiseFor(crossingRoute), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing distance result from "HUB" to "NOWHERE"`)
}

func TestNearestNeighborRouteEmptyTruck(t *testing.T) {
	plan, err := NearestNeighborRoute(context.Background(), domain.NewTruck(4, 1, "HUB"), time.Time{}, PairwiseDistances{}, true)
	require.NoError(t, err)
	assert.Empty(t, plan.Stops)
	assert.Zero(t, plan.TotalDistanceMeters)
}
