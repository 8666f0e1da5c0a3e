package schema

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotUnmarshalObjectRepo(t *testing.T) {
	payload := `{
		"repo": {"owner": "acme", "repo": "widgets"},
		"collected_at": "2025-10-25T06:00:00Z",
		"views": {
			"count": 120,
			"uniques": 30,
			"views": [
				{"timestamp": "2025-10-24T00:00:00Z", "count": 70, "uniques": 18},
				{"timestamp": "2025-10-25T00:00:00Z", "count": 50, "uniques": 12}
			]
		},
		"clones": {
			"count": 9,
			"uniques": 4,
			"clones": [
				{"timestamp": "2025-10-25T00:00:00Z", "count": 9, "uniques": 4}
			]
		},
		"referrers": [
			{"referrer": "github.com", "count": 80, "uniques": 20}
		],
		"paths": [
			{"path": "/acme/widgets", "title": "acme/widgets", "count": 60, "uniques": 15}
		]
	}`

	var snap Snapshot
	require.NoError(t, sonic.Unmarshal([]byte(payload), &snap))

	assert.Equal(t, "acme", snap.Repository.Owner)
	assert.Equal(t, "widgets", snap.Repository.Name)
	assert.Equal(t, "2025-10-25T06:00:00Z", snap.CollectedAt)
	assert.Equal(t, 120, snap.Views.Count)
	assert.Equal(t, 30, snap.Views.Uniques)
	require.Len(t, snap.Views.Days, 2)
	assert.Equal(t, 70, snap.Views.Days[0].Count)
	assert.Equal(t, 9, snap.Clones.Count)
	require.Len(t, snap.Clones.Days, 1)
	assert.Equal(t, 4, snap.Clones.Days[0].Uniques)
	require.Len(t, snap.Referrers, 1)
	assert.Equal(t, "github.com", snap.Referrers[0].Name)
	require.Len(t, snap.Paths, 1)
	assert.Equal(t, "/acme/widgets", snap.Paths[0].Path)
}

func TestSnapshotUnmarshalStringRepo(t *testing.T) {
	payload := `{
		"repository": "acme/widgets",
		"timestamp": "2025-10-25T06:00:00+00:00",
		"views": {"count": 10, "uniques": 5, "days": [
			{"timestamp": "2025-10-25T00:00:00Z", "count": 10, "uniques": 5}
		]},
		"clones": {"count": 2, "uniques": 1}
	}`

	var snap Snapshot
	require.NoError(t, sonic.Unmarshal([]byte(payload), &snap))

	assert.Equal(t, "acme", snap.Repository.Owner)
	assert.Equal(t, "widgets", snap.Repository.Name)
	assert.Equal(t, "2025-10-25T06:00:00+00:00", snap.CollectedAt)
	require.Len(t, snap.Views.Days, 1)
	assert.Empty(t, snap.Clones.Days)
	assert.Empty(t, snap.Referrers)
	assert.Empty(t, snap.Paths)
}

func TestSnapshotUnmarshalDateOnly(t *testing.T) {
	payload := `{"repository": "acme/widgets", "date": "2025-10-25"}`

	var snap Snapshot
	require.NoError(t, sonic.Unmarshal([]byte(payload), &snap))
	assert.Equal(t, "2025-10-25", snap.CollectedAt)
}

func TestSnapshotUnmarshalTimestampPrecedence(t *testing.T) {
	// collected_at wins over timestamp and date when several are present.
	payload := `{"collected_at": "2025-10-25T06:00:00Z", "timestamp": "old", "date": "older"}`

	var snap Snapshot
	require.NoError(t, sonic.Unmarshal([]byte(payload), &snap))
	assert.Equal(t, "2025-10-25T06:00:00Z", snap.CollectedAt)
}

func TestSnapshotUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{"views": `},
		{name: "numeric repository", payload: `{"repository": 42}`},
		{name: "array payload", payload: `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap Snapshot
			assert.Error(t, sonic.Unmarshal([]byte(tt.payload), &snap))
		})
	}
}

func TestRepoRefString(t *testing.T) {
	tests := []struct {
		name     string
		ref      RepoRef
		expected string
	}{
		{name: "owner and name", ref: RepoRef{Owner: "acme", Name: "widgets"}, expected: "acme/widgets"},
		{name: "name only", ref: RepoRef{Name: "widgets"}, expected: "widgets"},
		{name: "owner only", ref: RepoRef{Owner: "acme"}, expected: "acme/?"},
		{name: "empty", ref: RepoRef{}, expected: "?/?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.String())
		})
	}
}

func TestTrafficSeriesDayKeys(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{name: "days key", payload: `{"count": 5, "uniques": 2, "days": [{"timestamp": "2025-10-25T00:00:00Z", "count": 5, "uniques": 2}]}`, expected: 1},
		{name: "views key", payload: `{"count": 5, "uniques": 2, "views": [{"timestamp": "2025-10-25T00:00:00Z", "count": 5, "uniques": 2}]}`, expected: 1},
		{name: "clones key", payload: `{"count": 5, "uniques": 2, "clones": [{"timestamp": "2025-10-25T00:00:00Z", "count": 5, "uniques": 2}]}`, expected: 1},
		{name: "no day list", payload: `{"count": 5, "uniques": 2}`, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var series TrafficSeries
			require.NoError(t, sonic.Unmarshal([]byte(tt.payload), &series))
			assert.Equal(t, 5, series.Count)
			assert.Equal(t, 2, series.Uniques)
			assert.Len(t, series.Days, tt.expected)
		})
	}
}

func TestMetricDayDate(t *testing.T) {
	assert.Equal(t, "2025-10-25", MetricDay{Timestamp: "2025-10-25T00:00:00Z"}.Date())
	assert.Equal(t, "2025-10-25", MetricDay{Timestamp: "2025-10-25"}.Date())
	assert.Equal(t, "", MetricDay{}.Date())
}

func TestSnapshotRoundTrip(t *testing.T) {
	// A normalized snapshot re-encodes with canonical keys and decodes back
	// to the same value.
	original := Snapshot{
		Repository:  RepoRef{Owner: "acme", Name: "widgets"},
		CollectedAt: "2025-10-25T06:00:00Z",
		Views: TrafficSeries{Count: 10, Uniques: 5, Days: []MetricDay{
			{Timestamp: "2025-10-25T00:00:00Z", Count: 10, Uniques: 5},
		}},
		Clones: TrafficSeries{Count: 3, Uniques: 2},
	}

	data, err := sonic.Marshal(&original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"collected_at"`)
	assert.Contains(t, string(data), `"days"`)

	var decoded Snapshot
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
