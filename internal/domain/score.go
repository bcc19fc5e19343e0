package domain

import "time"

// ScoreCategory is a point-award taxonomy entry used to rank operators.
type ScoreCategory struct {
	ID        string
	Name      string
	Points    int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoreEntry is an immutable point-award fact, written exactly once at
// ticket resolution. Points are copied from the category at that moment
// and never re-derived.
type ScoreEntry struct {
	ID              string
	OperatorID      string
	ScoreCategoryID string
	TicketID        string
	Points          int
	ScoredDate      time.Time
	CreatedAt       time.Time
}
