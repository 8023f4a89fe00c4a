package domain

// EntityResult holds named entities found in a text, each in ranked order.
type EntityResult struct {
	People        []string
	Places        []string
	Organizations []string
	Topics        []string
}

// IsEmpty reports whether no entities were found.
func (r EntityResult) IsEmpty() bool {
	return len(r.People) == 0 && len(r.Places) == 0 &&
		len(r.Organizations) == 0 && len(r.Topics) == 0
}
