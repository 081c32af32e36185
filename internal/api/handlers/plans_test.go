package handlers

import (
	"route-refiner/internal/api/dto"
	"route-refiner/internal/tour"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanHandlerServiceRequest(t *testing.T) {
	now := time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)
	h := &PlanHandler{
		DefaultHub:    " Depot ",
		Refine:        true,
		RefineOptions: tour.Options{Epsilon: 0.5, MaxPasses: 3},
		Now:           func() time.Time { return now },
	}

	t.Run("defaults", func(t *testing.T) {
		req, err := h.serviceRequest(dto.PlanRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Depot", req.Hub)
		assert.Equal(t, defaultTruckCount, req.TruckCount)
		assert.Equal(t, defaultTruckCapacity, req.TruckCapacity)
		assert.Equal(t, now, req.DepartAt)
		assert.True(t, req.Refine)
		assert.Equal(t, tour.Options{Epsilon: 0.5, MaxPasses: 3}, req.RefineOptions)
	})

	t.Run("overrides", func(t *testing.T) {
		off, passes := false, 0
		depart := now.Add(time.Hour)
		req, err := h.serviceRequest(dto.PlanRequest{
			Hub:       "Other",
			DepartAt:  &depart,
			Refine:    &off,
			MaxPasses: &passes,
		})
		require.NoError(t, err)
		assert.Equal(t, "Other", req.Hub)
		assert.Equal(t, depart, req.DepartAt)
		assert.False(t, req.Refine)
		assert.Equal(t, 0, req.RefineOptions.MaxPasses)
		assert.Equal(t, 0.5, req.RefineOptions.Epsilon)
		assert.Equal(t, 3, h.RefineOptions.MaxPasses, "handler defaults untouched")
	})

	t.Run("hub required", func(t *testing.T) {
		_, err := (&PlanHandler{}).serviceRequest(dto.PlanRequest{Hub: "  "})
		require.EqualError(t, err, "hub is required")
	})

	t.Run("too many passes", func(t *testing.T) {
		passes := maxRequestPasses + 1
		_, err := h.serviceRequest(dto.PlanRequest{MaxPasses: &passes})
		require.Error(t, err)
	})
}
