package entities

import "time"

const (
	PhotoLabelBefore = "before"
	PhotoLabelAfter  = "after"
)

// PhotoSet is a labeled list of photo references under a vehicle.
//
// Storage model (DynamoDB):
//   - PK: vehicle_id
//   - SK: label
//
// PhotoSets are written outside any transaction, which is why the cascade
// re-enumerates them after its atomic batch commits.
type PhotoSet struct {
	VehicleID   string    `json:"vehicle_id"`
	Label       string    `json:"label"`
	Photos      []string  `json:"photos"`
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"last_updated"`
}

func NewPhotoSet(vehicleID, label string, photos []string, now time.Time) PhotoSet {
	cp := make([]string, len(photos))
	copy(cp, photos)
	return PhotoSet{
		VehicleID:   vehicleID,
		Label:       label,
		Photos:      cp,
		Count:       len(cp),
		LastUpdated: now,
	}
}
