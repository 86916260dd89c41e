package bias

// group is a non-empty subset of example indices sharing one sensitive
// attribute value. Groups for one attribute partition all indices exactly.
type group struct {
	name string
	idx  []int
}

// partition splits example indices by sensitive-attribute value. Group order
// is the insertion order of each value's first occurrence, which keeps report
// output reproducible across runs.
func partition(field string, values []string, n int) ([]group, error) {
	if len(values) != n {
		return nil, &ShapeError{Field: field, Want: n, Got: len(values)}
	}

	byValue := make(map[string]int, 4)
	groups := make([]group, 0, 4)
	for i, v := range values {
		gi, ok := byValue[v]
		if !ok {
			gi = len(groups)
			byValue[v] = gi
			groups = append(groups, group{name: v})
		}
		groups[gi].idx = append(groups[gi].idx, i)
	}

	return groups, nil
}
