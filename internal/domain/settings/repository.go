package settings

import "context"

// Repository defines persistence operations for the settings row
type Repository interface {
	// GetOrCreate returns the settings row, inserting the default row if
	// absent. Concurrent first access is resolved by the primary key
	// constraint: losers re-read the winner's row.
	GetOrCreate(ctx context.Context) (*CompanySettings, error)
	Save(ctx context.Context, settings *CompanySettings) error
}
