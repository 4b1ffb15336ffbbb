package glr

// ConflictResolution records one shift/reduce or reduce/reduce decision
// point the parser encountered, whether it was settled deterministically by
// a grammar's precedence/associativity table or left to fork into parallel
// Paths. The engine surfaces the accumulated log so a caller can see why an
// ambiguous grammar parsed the way it did (SPEC_FULL.md §11).
type ConflictResolution struct {
	PathID     int
	Position   int
	Symbol     string
	Candidates []string
	Chosen     string
	Reason     string // "precedence", "associativity", or "forked"
}
