package models

// SearchRequest is a user's outstanding intent to be matched. At most one
// exists per userId; the lock flag marks a request claimed by a commit
// attempt.
type SearchRequest struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	Query     string `dynamodbav:"query" json:"query"`
	IsLocked  bool   `dynamodbav:"isLocked" json:"isLocked"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// UserSearchesTable is the DynamoDB table name for outstanding searches
const UserSearchesTable = "UserSearches"
