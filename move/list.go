package move

import "strings"

type List []Move

// ParseList parses every entry; the first bad entry aborts with its index.
func ParseList(raws []string) (List, int, error) {
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		m, err := Parse(raw)
		if err != nil {
			return nil, i, err
		}
		out = append(out, m)
	}
	return out, -1, nil
}

func (l List) Strings() []string {
	out := make([]string, 0, len(l))
	for _, m := range l {
		out = append(out, m.String())
	}
	return out
}

func (l List) String() string {
	return strings.Join(l.Strings(), ",")
}

// IsPermutation reports whether l contains each valid move exactly once.
func (l List) IsPermutation() bool {
	if len(l) != Count {
		return false
	}
	var seen [Count]bool
	for _, m := range l {
		if !m.Valid() || seen[m.Index()] {
			return false
		}
		seen[m.Index()] = true
	}
	return true
}
