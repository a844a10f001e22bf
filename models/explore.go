package models

// ExploreItem is one entry inside an explore category
type ExploreItem struct {
	Text   string `dynamodbav:"text" json:"text"`
	ImgURL string `dynamodbav:"imgUrl,omitempty" json:"imgUrl,omitempty"`
}

// ExploreCategory groups curated content shown on the explore screen
type ExploreCategory struct {
	CategoryID string        `dynamodbav:"categoryId" json:"categoryId"`
	Category   string        `dynamodbav:"category" json:"category"`
	List       []ExploreItem `dynamodbav:"list" json:"list"`
}

// Interest is a selectable interest tag
type Interest struct {
	InterestID string `dynamodbav:"interestId" json:"interestId"`
	Text       string `dynamodbav:"text" json:"text"`
}

// ExploreCategoriesTable is the DynamoDB table name for explore content
const ExploreCategoriesTable = "ExploreCategories"

// InterestsTable is the DynamoDB table name for interest tags
const InterestsTable = "Interests"
