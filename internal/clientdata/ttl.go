package clientdata

import "time"

// TTL constants for cached API responses.
// These are added to now when storing to calculate expires_at.
const (
	// A settled daily close never changes; the TTL only bounds cache growth.
	TTLPolygonClose = 7 * 24 * time.Hour
)
