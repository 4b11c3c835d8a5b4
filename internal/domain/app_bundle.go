package domain

import "time"

// AppBundle is an uploaded zip extracted under a per-bundle directory.
// Bundles are stored and listed only, never executed.
type AppBundle struct {
	ID          int64     `json:"id"`
	BundleKey   string    `json:"bundleKey"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	Created     time.Time `json:"created"`
}
