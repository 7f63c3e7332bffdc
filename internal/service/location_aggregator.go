package service

import (
	"sort"
	"time"
	_ "time/tzdata"

	"parkingspots/internal/entities"
	"parkingspots/internal/utils"
)

const (
	fieldName           = "name"
	fieldAddress        = "address"
	fieldTotalSpots     = "total_spots"
	fieldAvailableSpots = "available_spots"
	fieldTimestamp      = "timestamp"

	notAvailable           = "N/A"
	displayTimestampLayout = "01/02/2006, 15:04:05"
)

// LoadDisplayLocation resolves the zone used to render last_updated, falling back
// to a fixed CST offset when the zone database has no entry for name.
func LoadDisplayLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// MergedSet accumulates MergedLocations keyed by location id, remembering the
// order in which ids were first seen.
type MergedSet struct {
	byID  map[string]*entities.MergedLocation
	order []string
}

func newMergedSet() *MergedSet {
	return &MergedSet{byID: make(map[string]*entities.MergedLocation)}
}

func (s *MergedSet) entry(id string) *entities.MergedLocation {
	loc, ok := s.byID[id]
	if !ok {
		loc = entities.NewMergedLocation(id)
		s.byID[id] = loc
		s.order = append(s.order, id)
	}
	return loc
}

// Get returns the entry for id.
func (s *MergedSet) Get(id string) (*entities.MergedLocation, bool) {
	loc, ok := s.byID[id]
	return loc, ok
}

func (s *MergedSet) Len() int {
	return len(s.order)
}

// LocationAggregator joins location metadata and availability cells into display rows.
type LocationAggregator struct {
	zone *time.Location
}

func NewLocationAggregator(zone *time.Location) *LocationAggregator {
	if zone == nil {
		zone = LoadDisplayLocation("America/Chicago")
	}
	return &LocationAggregator{zone: zone}
}

// Merge folds both cell sets into one entry per distinct row key. Either set may be nil.
func (a *LocationAggregator) Merge(locationCells, availabilityCells []entities.Cell) *MergedSet {
	set := newMergedSet()
	for _, cells := range [][]entities.Cell{locationCells, availabilityCells} {
		for _, cell := range cells {
			assignField(set.entry(cell.RowKey), cell.Qualifier(), cell.Value)
		}
	}
	return set
}

func assignField(loc *entities.MergedLocation, field string, raw []byte) {
	switch field {
	case fieldTotalSpots:
		loc.TotalSpots = decodedPtr(raw)
	case fieldAvailableSpots:
		loc.AvailableSpots = decodedPtr(raw)
	case fieldTimestamp:
		loc.Timestamp = decodedPtr(raw)
	case fieldName:
		loc.Name = string(raw)
	case fieldAddress:
		loc.Address = string(raw)
	default:
		loc.Fields[field] = string(raw)
	}
}

// decodedPtr decodes through the text path: store values arrive as strings and
// single-digit text like "5" must not be read as a raw byte.
func decodedPtr(raw []byte) *int64 {
	n := utils.DecodeCounter(string(raw))
	return &n
}

// DecorateTimestamps fills LastUpdated for every entry. A missing or zero
// timestamp renders as "N/A".
func (a *LocationAggregator) DecorateTimestamps(set *MergedSet) {
	for _, id := range set.order {
		loc := set.byID[id]
		if loc.Timestamp == nil || *loc.Timestamp == 0 {
			loc.LastUpdated = notAvailable
			continue
		}
		loc.LastUpdated = time.Unix(*loc.Timestamp, 0).In(a.zone).Format(displayTimestampLayout)
	}
}

// ToSortedList orders entries by location id read as an integer. Ids without a
// leading number sort as 0; equal keys keep first-seen order.
func (a *LocationAggregator) ToSortedList(set *MergedSet) []entities.MergedLocation {
	list := make([]entities.MergedLocation, 0, len(set.order))
	keys := make([]int64, 0, len(set.order))
	for _, id := range set.order {
		list = append(list, *set.byID[id])
		n, _ := utils.ParseLeadingInt(id)
		keys = append(keys, n)
	}
	sort.Stable(byNumericID{list: list, keys: keys})
	return list
}

// Aggregate runs merge, decorate and sort in sequence.
func (a *LocationAggregator) Aggregate(locationCells, availabilityCells []entities.Cell) []entities.MergedLocation {
	set := a.Merge(locationCells, availabilityCells)
	a.DecorateTimestamps(set)
	return a.ToSortedList(set)
}

type byNumericID struct {
	list []entities.MergedLocation
	keys []int64
}

func (b byNumericID) Len() int           { return len(b.list) }
func (b byNumericID) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byNumericID) Swap(i, j int) {
	b.list[i], b.list[j] = b.list[j], b.list[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
