package model

// Collections is one complete in-memory snapshot of every synchronized
// entity type. Every slice is the whole collection, never a partial page,
// so whole-collection replacement is always a valid operation on it.
type Collections struct {
	Clients  []Client
	Projects []Project
	Stations []WorkStation
	Users    []User
	Entries  []TimeEntry
}

// Clone returns an independent copy. Entity records are plain values, so
// copying the slices is enough.
func (c Collections) Clone() Collections {
	out := Collections{
		Clients:  make([]Client, len(c.Clients)),
		Projects: make([]Project, len(c.Projects)),
		Stations: make([]WorkStation, len(c.Stations)),
		Users:    make([]User, len(c.Users)),
		Entries:  make([]TimeEntry, len(c.Entries)),
	}
	copy(out.Clients, c.Clients)
	copy(out.Projects, c.Projects)
	copy(out.Stations, c.Stations)
	copy(out.Users, c.Users)
	copy(out.Entries, c.Entries)
	return out
}

// ClientByID looks up a client by id.
func (c Collections) ClientByID(id string) (Client, bool) {
	for _, cl := range c.Clients {
		if cl.ID == id {
			return cl, true
		}
	}
	return Client{}, false
}

// ProjectByID looks up a project by id.
func (c Collections) ProjectByID(id string) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// StationByID looks up a work station by id.
func (c Collections) StationByID(id string) (WorkStation, bool) {
	for _, s := range c.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return WorkStation{}, false
}

// UserByName looks up a user account by name.
func (c Collections) UserByName(name string) (User, bool) {
	for _, u := range c.Users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

// EntryByID looks up a time entry by id.
func (c Collections) EntryByID(id string) (TimeEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return TimeEntry{}, false
}

// ClientForEntry resolves the entry's client by following its project.
// This is the only way an entry is associated with a client.
func (c Collections) ClientForEntry(e TimeEntry) (Client, bool) {
	p, ok := c.ProjectByID(e.ProjectID)
	if !ok {
		return Client{}, false
	}
	return c.ClientByID(p.ClientID)
}

// ProjectsForClient returns every project belonging to the client.
func (c Collections) ProjectsForClient(clientID string) []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out
}

// EntriesForProject returns every time entry booked on the project.
func (c Collections) EntriesForProject(projectID string) []TimeEntry {
	var out []TimeEntry
	for _, e := range c.Entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// TotalHours sums the hours of all entries.
func (c Collections) TotalHours() float64 {
	var total float64
	for _, e := range c.Entries {
		total += e.Hours
	}
	return total
}
