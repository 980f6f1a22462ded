package graph

// Neighbors returns a step for every co-star of personID in every movie they
// share, excluding personID itself. A co-star reachable through several
// movies appears once per movie.
//
// Steps are ordered by movie id, then by co-star id, so the search keeps the
// lowest movie id when several movies link the same pair.
func Neighbors(c Catalog, personID string) ([]Step, error) {
	p, err := c.PersonByID(personID)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, movieID := range p.MovieIDs() {
		m, err := c.MovieByID(movieID)
		if err != nil {
			return nil, err
		}
		for _, starID := range m.StarIDs() {
			if starID == personID {
				continue
			}
			steps = append(steps, Step{MovieID: movieID, PersonID: starID})
		}
	}
	return steps, nil
}
