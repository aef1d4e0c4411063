package model

// Database is the background-inventory collaborator contract. The traversal
// layer calls it with the (method, category, indicator) triple from
// CharacterizationTriple for each activity it expands, and feeds the
// returned contributions to Model.Aggregate as impact records.
//
// The engine itself never calls the database: all lookups happen before an
// aggregation pass starts, which is what keeps passes pure and bounded.
type Database interface {
	// Characterize returns the raw characterized impact of one activity for
	// one indicator, in the impact category's declared unit.
	Characterize(activityID, method, category, indicator string) (float64, error)
}
