package models

// PlaceStatus represents the lifecycle status of a place
type PlaceStatus string

const (
	PlaceStatusActive        PlaceStatus = "active"
	PlaceStatusPendingReview PlaceStatus = "pending_review"
	PlaceStatusRejected      PlaceStatus = "rejected"
)

// Place represents a durable, categorized place detected from location history
type Place struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Category     Category    `json:"category" db:"category"`
	CentroidLat  float64     `json:"centroidLat" db:"centroid_lat"`
	CentroidLon  float64     `json:"centroidLon" db:"centroid_lon"`
	RadiusMeters float64     `json:"radiusMeters" db:"radius_meters"` // always > 0 when persisted
	Confidence   float64     `json:"confidence" db:"confidence"`      // 0.0 to 1.0
	VisitCount   int         `json:"visitCount" db:"visit_count"`
	Status       PlaceStatus `json:"status" db:"status"`

	CreatedAt int64 `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt int64 `json:"updatedAt,omitempty" db:"updated_at"`
}

// PlaceFilter represents filter parameters for querying places
type PlaceFilter struct {
	Category      string  `form:"category"`
	Status        string  `form:"status"`
	MinConfidence float64 `form:"minConfidence"`
	MinVisits     int     `form:"minVisits"`
	Page          int     `form:"page"`
	PageSize      int     `form:"pageSize"`
}

// PlacesResponse represents a paginated response of places
type PlacesResponse struct {
	Data       []Place `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
