package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type PackageSeed struct {
	PackageID   int    `json:"package_id"`
	Destination string `json:"destination"`
}

// loadSeed reads and validates the package seed file.
func loadSeed(jsonPath string) ([]PackageSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed packages: read %q: %w", jsonPath, err)
	}

	var data []PackageSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed packages: parse json: %w", err)
	}

	rows := make([]PackageSeed, 0, len(data))
	for i, item := range data {
		if item.PackageID <= 0 {
			return nil, fmt.Errorf("seed packages: invalid packageID at index %d: %d", i+1, item.PackageID)
		}

		dest := strings.TrimSpace(item.Destination)
		if dest == "" {
			return nil, fmt.Errorf("seed packages: item dest at index %d: destination cannot be empty", i+1)
		}
		rows = append(rows, PackageSeed{PackageID: item.PackageID, Destination: dest})
	}

	return rows, nil
}
