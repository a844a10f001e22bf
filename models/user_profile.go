package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"`
	FullName  string   `dynamodbav:"fullname,omitempty" json:"fullname,omitempty"`
	Email     string   `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Birthdate string   `dynamodbav:"birthdate,omitempty" json:"birthdate,omitempty"`
	Interests []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Friends   []string `dynamodbav:"friends,omitempty" json:"friends,omitempty"`
	CreatedAt string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt string   `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
