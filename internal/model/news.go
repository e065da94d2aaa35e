package model

import "time"

const (
	StatusPending    = "pending"
	StatusClassified = "classified"
	StatusResearched = "researched"
	StatusFailed     = "failed"
)

const (
	StageClassify = "classify"
	StageResearch = "research"
)

// EntitySeparator joins party names when a case is rendered as one string.
const EntitySeparator = ",| "

const (
	MergerRelatedTrue    = "true"
	MergerRelatedFalse   = "false"
	MergerRelatedUnknown = "unable to tell"
)

type NewsItem struct {
	ID            int64
	PublishedDate time.Time
	Source        string
	ExtractedDate time.Time
	Text          string
	URL           string
	ExternalID    string
	ContentHash   string
	Status        string
}

type Classification struct {
	ID            int64
	NewsItemID    int64
	MergerRelated string
	Reasons       string
	Entities      []string
	ModelUsed     string
	ClassifiedAt  time.Time
}

type ProcessingError struct {
	ID           int64
	NewsItemID   int64
	Stage        string
	ErrorMessage string
	ErrorType    string
	CreatedAt    time.Time
}

// MergerCase is a news item joined with its classification.
type MergerCase struct {
	NewsItem
	MergerRelated string
	Reasons       string
	Entities      []string
	ModelUsed     string
	ClassifiedAt  time.Time
}
