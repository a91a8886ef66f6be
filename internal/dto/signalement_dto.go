package dto

type CreateSignalementRequest struct {
	Category         *int     `json:"category"`
	Place            string   `json:"place"`
	ReportingContent string   `json:"reporting_content"`
	Photos           []string `json:"photos"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Locality         string   `json:"locality"`
}

type CreateUrgentRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Locality  string   `json:"locality"`
}

// UpdateSignalementRequest is a partial merge. There is deliberately no
// owner field (the creator identity is immutable) and no processed field
// (the processed flag only transitions through the process endpoint).
type UpdateSignalementRequest struct {
	Category          *int      `json:"category"`
	Place             *string   `json:"place"`
	ReportingContent  *string   `json:"reporting_content"`
	Photos            *[]string `json:"photos"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	Locality          *string   `json:"locality"`
	IsUrgent          *bool     `json:"is_urgent"`
	PersonnelComments *string   `json:"personnel_comments"`
}

// SignalementFilter holds the optional list filters. Nil means
// unconstrained.
type SignalementFilter struct {
	Category    *int
	IsProcessed *bool
}
