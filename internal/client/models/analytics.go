package models

type VisitorsPoint struct {
	Date      string `json:"date"`
	CreatedAt string `json:"created_at,omitempty"`
	Visitors  Count  `json:"visitors"`
	Total     Count  `json:"total"`
}

type LocationTotal struct {
	Country string `json:"country"`
	Region  string `json:"region"`
	City    string `json:"city"`
	Total   Count  `json:"total"`
}

type DeviceTotal struct {
	DeviceType string `json:"device_type"`
	Total      Count  `json:"total"`
}

type PageTotal struct {
	Page  string `json:"page"`
	Total Count  `json:"total"`
}

type UniqueVsReturning struct {
	Unique    Count `json:"unique"`
	Returning Count `json:"returning"`
}

// Analytics is the website analytics overview, normalised for display.
type Analytics struct {
	VisitorsOverTime  []VisitorsPoint
	Locations         []LocationTotal
	Devices           []DeviceTotal
	PageViews         []PageTotal
	UniqueVsReturning UniqueVsReturning
	Online            Count
}

// GeoPoint is the geocoded position of a visitor city.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
