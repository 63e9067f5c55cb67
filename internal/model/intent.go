package model

// QueryIntent selects retrieval breadth and the prompt template.
type QueryIntent string

const (
	IntentRank    QueryIntent = "rank"
	IntentChat    QueryIntent = "chat"
	IntentCompare QueryIntent = "compare"
)

func (i QueryIntent) Valid() bool {
	switch i {
	case IntentRank, IntentChat, IntentCompare:
		return true
	}
	return false
}
