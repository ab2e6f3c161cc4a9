package entity

// Stats summarises a set of todos.
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	ByPriority     map[Priority]int // always holds every priority level
	ByCategory     map[string]int   // only categories that occur
	CompletionRate float64          // percentage, two decimals
}
