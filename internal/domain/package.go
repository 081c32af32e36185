package domain

import "time"

// Represents a single delivery unit handled by the system.
// A Package has a unique identifier and a single destination address.
// LoadedAt and DeliveredAt stay nil until Truck.ApplyPlan stamps them from
// the final (possibly refined) route.
type Package struct {
	PackageID   int
	Destination string
	LoadedAt    *time.Time
	DeliveredAt *time.Time
}
