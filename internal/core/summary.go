package core

// CategoryEmission is an emission total aggregated by category.
type CategoryEmission struct {
	Category Category
	Emission Emission
}

// MonthSummary is a compact emissions summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      Emission
	ByCategory []CategoryEmission
}
