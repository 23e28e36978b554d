// Package domain defines the weather forecast domain models served by the
// gated query endpoints.
package domain

import "time"

// Province is a top-level administrative area. Static reference data.
type Province struct {
	ID   int64
	Name string
}

// Region is a forecast location inside a province. IsCeram marks the regions
// belonging to the Ceram island group, which are served by their own
// capability.
type Region struct {
	ID         int64
	ProvinceID int64
	Name       string
	Latitude   float64
	Longitude  float64
	IsCeram    bool
}

// TendayForecast is one region-day of the ten-day forecast issued on
// IssueDate. Re-ingesting data for an issue date replaces all of its rows.
type TendayForecast struct {
	ID           int64
	RegionID     int64
	RegionName   string
	ProvinceID   int64
	IssueDate    time.Time
	ForecastDate time.Time
	Weather      string
	TempMin      int
	TempMax      int
	HumidityMin  int
	HumidityMax  int
}

// TendayFilter narrows a ten-day forecast query. Nil fields are not applied.
// Limit <= 0 disables row limiting (pagination disabled by the caller).
type TendayFilter struct {
	IssueDate  *time.Time
	ProvinceID *int64
	RegionID   *int64
	CeramOnly  bool
	Offset     int
	Limit      int
}
