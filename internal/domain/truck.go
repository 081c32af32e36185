package domain

import (
	"fmt"
	"time"
)

// Delivery truck aggregate holding packages and producing/applying RoutePlans.
type Truck struct {
	TruckID       int
	Capacity      int
	StartLocation string
	DepartAt      *time.Time
	Packages      []*Package
}

func NewTruck(id int, capacity int, hub string) *Truck {
	return &Truck{
		TruckID:       id,
		Capacity:      capacity,
		StartLocation: hub,
	}
}

// Load a single package onto the truck.
func (t *Truck) Load(pkg *Package) error {
	if len(t.Packages) >= t.Capacity {
		return fmt.Errorf("load truck: Truck %d is at full capacity (capacity=%d)", t.TruckID, t.Capacity)
	}
	t.Packages = append(t.Packages, pkg)
	return nil
}

// Load multiple packages onto the truck.
func (t *Truck) LoadMultiple(pkgs []*Package) error {
	for _, pkg := range pkgs {
		if err := t.Load(pkg); err != nil {
			return err
		}
	}

	return nil
}

// Unload all packages from the truck.
func (t *Truck) Clear() {
	t.Packages = nil
}

// ApplyPlan stamps load and delivery times from a planned route.
// Every package on the truck is loaded at departure; packages listed on a stop
// are delivered at that stop's arrival time.
func (t *Truck) ApplyPlan(plan *RoutePlan) error {
	if plan == nil {
		return fmt.Errorf("apply plan: truck %d: plan must be non-nil", t.TruckID)
	}
	if plan.TruckID != t.TruckID {
		return fmt.Errorf("apply plan: plan for truck %d applied to truck %d", plan.TruckID, t.TruckID)
	}

	arrivals := make(map[int]time.Time)
	for _, stop := range plan.Stops {
		for _, id := range stop.PackageIDs {
			arrivals[id] = stop.ArriveAt
		}
	}

	departAt := plan.DepartAt
	t.DepartAt = &departAt
	for _, pkg := range t.Packages {
		loadedAt := departAt
		pkg.LoadedAt = &loadedAt

		if at, ok := arrivals[pkg.PackageID]; ok {
			deliveredAt := at
			pkg.DeliveredAt = &deliveredAt
		}
	}

	return nil
}
