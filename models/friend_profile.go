package models

// FriendProfile is the slice of a user profile the matcher cares about:
// the handle and the declared acquaintance set.
type FriendProfile struct {
	Name    string   `dynamodbav:"name" json:"name"`
	Friends []string `dynamodbav:"friends,omitempty" json:"friends,omitempty"`
}

// FriendProfilesTable is the default DynamoDB table for friend profiles;
// override with the FRIENDS_TABLE environment variable.
const FriendProfilesTable = "FriendProfiles"
