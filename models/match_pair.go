package models

// MatchPair is the durable record of a committed pairing. It is terminal:
// created once at commit, then only read or deleted by the chat-creation
// flow.
type MatchPair struct {
	MatchID    string  `dynamodbav:"matchId" json:"matchId"`
	UserA      string  `dynamodbav:"userA" json:"userA"`
	UserB      string  `dynamodbav:"userB" json:"userB"`
	Similarity float64 `dynamodbav:"similarity" json:"similarity"`
	CreatedAt  string  `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchPairsTable is the DynamoDB table name for committed pairings
const MatchPairsTable = "MatchPairs"
