package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkingspots/internal/entities"
	"parkingspots/internal/utils"
)

func cell(key, column, value string) entities.Cell {
	return entities.Cell{RowKey: key, Column: column, Value: []byte(value)}
}

func ids(list []entities.MergedLocation) []string {
	out := make([]string, 0, len(list))
	for _, l := range list {
		out = append(out, l.LocationID)
	}
	return out
}

func TestMergeJoinsBothSets(t *testing.T) {
	a := NewLocationAggregator(nil)
	set := a.Merge(
		[]entities.Cell{cell("2", "info:total_spots", "10"), cell("2", "info:name", "Navy Pier")},
		[]entities.Cell{cell("2", "stat:available_spots", "3")},
	)

	require.Equal(t, 1, set.Len())
	loc, ok := set.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Navy Pier", loc.Name)
	require.NotNil(t, loc.TotalSpots)
	require.NotNil(t, loc.AvailableSpots)
	assert.Equal(t, int64(10), *loc.TotalSpots)
	assert.Equal(t, int64(3), *loc.AvailableSpots)
	assert.Nil(t, loc.Timestamp)
}

func TestMergeKeepsOneSidedEntries(t *testing.T) {
	a := NewLocationAggregator(nil)
	set := a.Merge(
		[]entities.Cell{cell("1", "info:total_spots", "12")},
		[]entities.Cell{cell("9", "stat:available_spots", "4")},
	)

	assert.Equal(t, 2, set.Len())
	only, _ := set.Get("1")
	assert.Nil(t, only.AvailableSpots)
	orphan, _ := set.Get("9")
	assert.Nil(t, orphan.TotalSpots)
	assert.Equal(t, int64(4), *orphan.AvailableSpots)
}

func TestMergeDecodesBinaryAndPassesThroughUnknown(t *testing.T) {
	a := NewLocationAggregator(nil)
	set := a.Merge(
		[]entities.Cell{
			cell("1", "info:latitude", "41.8826"),
			cell("1", "info:address", "5 S Columbus Dr"),
		},
		[]entities.Cell{
			{RowKey: "1", Column: "stat:available_spots", Value: utils.EncodeCounter32(5)},
			{RowKey: "1", Column: "stat:timestamp", Value: utils.EncodeCounter64(1700000000)},
			cell("1", "stat:last_updated", "2023-11-14 16:13:20"),
			cell("1", "stat:total_spots", "garbage"),
		},
	)

	loc, _ := set.Get("1")
	assert.Equal(t, "5 S Columbus Dr", loc.Address)
	assert.Equal(t, "41.8826", loc.Field("latitude"))
	assert.Equal(t, int64(5), *loc.AvailableSpots)
	assert.Equal(t, int64(1700000000), *loc.Timestamp)
	assert.Equal(t, int64(0), *loc.TotalSpots)
}

func TestToSortedListNumericOrder(t *testing.T) {
	a := NewLocationAggregator(nil)
	set := a.Merge([]entities.Cell{
		cell("10", "info:name", "ten"),
		cell("2", "info:name", "two"),
		cell("1", "info:name", "one"),
	}, nil)

	assert.Equal(t, []string{"1", "2", "10"}, ids(a.ToSortedList(set)))
}

func TestToSortedListNonNumericTieBreak(t *testing.T) {
	a := NewLocationAggregator(nil)
	set := a.Merge(
		[]entities.Cell{cell("3", "info:name", "x"), cell("beta", "info:name", "x"), cell("alpha", "info:name", "x")},
		[]entities.Cell{cell("0", "stat:available_spots", "1"), cell("-1", "stat:available_spots", "1")},
	)

	// beta, alpha and 0 all sort as 0 in scan order
	assert.Equal(t, []string{"-1", "beta", "alpha", "0", "3"}, ids(a.ToSortedList(set)))
}

func TestDecorateTimestamps(t *testing.T) {
	a := NewLocationAggregator(LoadDisplayLocation("America/Chicago"))
	set := a.Merge(nil, []entities.Cell{
		cell("1", "stat:timestamp", "1700000000"),
		cell("2", "stat:timestamp", "0"),
		cell("3", "stat:available_spots", "8"),
		cell("4", "stat:timestamp", "1720000000"),
	})
	a.DecorateTimestamps(set)

	winter, _ := set.Get("1")
	assert.Equal(t, "11/14/2023, 16:13:20", winter.LastUpdated)
	zero, _ := set.Get("2")
	assert.Equal(t, "N/A", zero.LastUpdated)
	absent, _ := set.Get("3")
	assert.Equal(t, "N/A", absent.LastUpdated)
	summer, _ := set.Get("4")
	assert.Equal(t, "07/03/2024, 04:46:40", summer.LastUpdated)
}

func TestLoadDisplayLocationFallback(t *testing.T) {
	loc := LoadDisplayLocation("Nowhere/Special")
	_, offset := time.Unix(0, 0).In(loc).Zone()
	assert.Equal(t, -6*60*60, offset)
}

func TestAggregateJSON(t *testing.T) {
	a := NewLocationAggregator(nil)
	list := a.Aggregate(
		[]entities.Cell{cell("1", "info:name", "Millennium Park Garage"), cell("1", "info:total_spots", "12"), cell("1", "info:longitude", "-87.62")},
		[]entities.Cell{cell("1", "stat:available_spots", "4"), cell("1", "stat:last_updated", "stale")},
	)
	require.Len(t, list, 1)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "1", decoded[0]["location_id"])
	assert.Equal(t, float64(12), decoded[0]["total_spots"])
	assert.Equal(t, float64(4), decoded[0]["available_spots"])
	assert.Equal(t, "-87.62", decoded[0]["longitude"])
	assert.Equal(t, "N/A", decoded[0]["last_updated"])
	assert.NotContains(t, decoded[0], "timestamp")
}
