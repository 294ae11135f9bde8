package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProject_EffectiveStatus(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		want    ProjectStatus
	}{
		{"unset defaults to active", Project{}, ProjectActive},
		{"active stays active", Project{Status: ProjectActive}, ProjectActive},
		{"completed", Project{Status: ProjectCompleted}, ProjectCompleted},
		{"archived", Project{Status: ProjectArchived}, ProjectArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.project.EffectiveStatus())
		})
	}
}

func TestTimeEntry_StaleClientIDFieldIsDropped(t *testing.T) {
	// Early revisions of the wire format stored a clientId on entries.
	// The entry type has no such field, so it must decode cleanly and
	// the client must resolve through the project.
	payload := `{"id":"e1","projectId":"P1","workStationId":"W1","hours":3.5,"clientId":"C2"}`

	var entry TimeEntry
	require.NoError(t, json.Unmarshal([]byte(payload), &entry))
	require.Equal(t, "P1", entry.ProjectID)

	data := Collections{
		Clients: []Client{
			{ID: "C1", Name: "First"},
			{ID: "C2", Name: "Second"},
		},
		Projects: []Project{
			{ID: "P1", Name: "Alpha", ClientID: "C1"},
			{ID: "P2", Name: "Beta", ClientID: "C2"},
		},
		Entries: []TimeEntry{entry},
	}

	client, ok := data.ClientForEntry(entry)
	require.True(t, ok)
	require.Equal(t, "C1", client.ID)
}

func TestCollections_ClientForEntry_UnknownProject(t *testing.T) {
	data := Collections{
		Clients: []Client{{ID: "C1", Name: "First"}},
	}

	_, ok := data.ClientForEntry(TimeEntry{ID: "e1", ProjectID: "gone"})
	require.False(t, ok)
}

func TestCollections_Cascading_Lookups(t *testing.T) {
	data := Collections{
		Projects: []Project{
			{ID: "P1", ClientID: "C1"},
			{ID: "P2", ClientID: "C1"},
			{ID: "P3", ClientID: "C2"},
		},
		Entries: []TimeEntry{
			{ID: "e1", ProjectID: "P1", Hours: 1},
			{ID: "e2", ProjectID: "P3", Hours: 2},
			{ID: "e3", ProjectID: "P1", Hours: 3},
		},
	}

	require.Len(t, data.ProjectsForClient("C1"), 2)
	require.Len(t, data.EntriesForProject("P1"), 2)
	require.Empty(t, data.EntriesForProject("P2"))
	require.Equal(t, 6.0, data.TotalHours())
}

func TestCollections_CloneIsIndependent(t *testing.T) {
	data := Collections{
		Clients: []Client{{ID: "C1", Name: "First"}},
	}

	clone := data.Clone()
	clone.Clients[0].Name = "Changed"

	require.Equal(t, "First", data.Clients[0].Name)
}
