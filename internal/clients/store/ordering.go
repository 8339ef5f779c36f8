package store

// Ordering is a list sort key. A leading "-" sorts descending.
type Ordering string

const (
	OrderByID            Ordering = "id"
	OrderByIDDesc        Ordering = "-id"
	OrderByName          Ordering = "name"
	OrderByNameDesc      Ordering = "-name"
	OrderByCreatedAt     Ordering = "created_at"
	OrderByCreatedAtDesc Ordering = "-created_at"
)

// DefaultOrdering is insertion order.
const DefaultOrdering = OrderByID

// ParseOrdering accepts the supported keys and falls back to DefaultOrdering
// for anything else, including the empty string.
func ParseOrdering(s string) Ordering {
	switch o := Ordering(s); o {
	case OrderByID, OrderByIDDesc, OrderByName, OrderByNameDesc, OrderByCreatedAt, OrderByCreatedAtDesc:
		return o
	default:
		return DefaultOrdering
	}
}

// EscapeLike escapes the LIKE wildcards in s using backslash.
func EscapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\\' || r == '%' || r == '_' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
