// Package domain defines authentication and authorization domain models.
// Access control is capability-based: every gated endpoint is a capability with
// a stable integer id, and a token authorizes a set of capability ids.
package domain

import "slices"

// CapabilityID identifies one discrete API surface a token may be authorized to call.
type CapabilityID int

const (
	// CapabilityTendayCurrent serves the ten-day forecast starting from today.
	CapabilityTendayCurrent CapabilityID = 1

	// CapabilityTendayDate serves the ten-day forecast for a requested date.
	CapabilityTendayDate CapabilityID = 2

	// CapabilityCeram serves forecasts restricted to the Ceram island regions.
	CapabilityCeram CapabilityID = 3

	// CapabilityProvince serves the province reference list.
	CapabilityProvince CapabilityID = 4

	// CapabilityRegion serves the region reference list.
	CapabilityRegion CapabilityID = 5
)

// Capability describes one gated API surface. Static reference data, persisted
// in the api_definitions table and seeded by migrations.
type Capability struct {
	ID          CapabilityID
	Name        string
	Label       string
	Endpoint    string
	Description string
}

// definitions mirrors the api_definitions seed rows so the HTTP layer can
// stamp capability names into response envelopes without a store round trip.
var definitions = map[CapabilityID]Capability{
	CapabilityTendayCurrent: {
		ID:          CapabilityTendayCurrent,
		Name:        "tenday_current",
		Label:       "Ten Day Forecast",
		Endpoint:    "/tenday/current",
		Description: "Ten-day forecast starting from today",
	},
	CapabilityTendayDate: {
		ID:          CapabilityTendayDate,
		Name:        "tenday_date",
		Label:       "Ten Day Forecast By Date",
		Endpoint:    "/tenday/date",
		Description: "Ten-day forecast for a requested issue date",
	},
	CapabilityCeram: {
		ID:          CapabilityCeram,
		Name:        "ceram",
		Label:       "Ceram Island Forecast",
		Endpoint:    "/ceram",
		Description: "Forecasts restricted to the Ceram island regions",
	},
	CapabilityProvince: {
		ID:          CapabilityProvince,
		Name:        "province",
		Label:       "Province List",
		Endpoint:    "/province",
		Description: "Province reference list",
	},
	CapabilityRegion: {
		ID:          CapabilityRegion,
		Name:        "region",
		Label:       "Region List",
		Endpoint:    "/region",
		Description: "Region reference list",
	},
}

// DefinitionOf returns the built-in definition for a capability id.
func DefinitionOf(id CapabilityID) (Capability, bool) {
	capability, ok := definitions[id]
	return capability, ok
}

// CapabilitySet provides O(1) membership checks over authorized capability ids.
type CapabilitySet map[CapabilityID]struct{}

// NewCapabilitySet builds a set from a list of capability ids.
func NewCapabilitySet(ids ...CapabilityID) CapabilitySet {
	set := make(CapabilitySet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the set authorizes the given capability id.
func (s CapabilitySet) Contains(id CapabilityID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the member ids in ascending order.
func (s CapabilitySet) IDs() []CapabilityID {
	ids := make([]CapabilityID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
