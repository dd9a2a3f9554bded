package domain

// Hotel is resolved by name during a scrape run and never mutated by this
// service; ownership of the Hotels table lies with the property import.
type Hotel struct {
	ID   int64
	Name string // Hotels.GlobalPropertyName
}
