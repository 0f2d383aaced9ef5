package query

// SortField is one key of a sort specification.
type SortField struct {
	Property  string
	Ascending bool
}

// Less orders two objects by a multi-key sort specification. Later fields
// break ties of earlier ones; fully equal objects keep their relative order
// (callers sort stably).
func Less(a, b map[string]interface{}, fields []SortField) bool {
	for _, f := range fields {
		c := CompareValues(a[f.Property], b[f.Property])
		if c == 0 {
			continue
		}
		if f.Ascending {
			return c < 0
		}
		return c > 0
	}
	return false
}
