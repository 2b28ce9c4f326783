package models

// EnrichmentResult is the optional signal returned by the reverse-geocoding
// collaborator for a candidate centroid. Absence (nil) means "no signal".
type EnrichmentResult struct {
	CategoryHint     Category `json:"categoryHint"`
	DisplayName      string   `json:"displayName"`
	SourceConfidence float64  `json:"sourceConfidence"` // 0.0 to 1.0
}
