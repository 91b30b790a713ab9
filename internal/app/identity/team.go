package identity

import "github.com/fardannozami/dailyreport/internal/domain"

type DepartmentGroup struct {
	Department string        `json:"department"`
	Members    []domain.User `json:"members"`
}

// Team groups members (not managers) by department, in order of first appearance.
// Members without a department are grouped under an empty name.
func (s *Store) Team() []DepartmentGroup {
	var groups []DepartmentGroup
	index := make(map[string]int)

	for _, u := range s.Users() {
		if u.Role != domain.RoleMember {
			continue
		}
		i, ok := index[u.Department]
		if !ok {
			i = len(groups)
			index[u.Department] = i
			groups = append(groups, DepartmentGroup{Department: u.Department})
		}
		groups[i].Members = append(groups[i].Members, u)
	}
	return groups
}
