package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/won-N-only/egg-talk-server-sub000/models"
)

// FriendDirectory resolves a participant's declared acquaintance set.
type FriendDirectory interface {
	AcquaintancesOf(ctx context.Context, name string) ([]string, error)
}

// DynamoFriendDirectory reads friend sets from the user-profile table.
type DynamoFriendDirectory struct {
	Dynamo *DynamoService
	Table  string
}

func (d *DynamoFriendDirectory) AcquaintancesOf(ctx context.Context, name string) ([]string, error) {
	table := d.Table
	if table == "" {
		table = models.FriendProfilesTable
	}
	key := map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: name},
	}
	item, err := d.Dynamo.GetItem(ctx, table, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	var profile models.FriendProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile for '%s': %w", name, err)
	}
	return profile.Friends, nil
}

// FriendService memoizes acquaintance sets in the key-value store so the
// matcher's repeated compatibility checks do not hammer the directory.
// Cache-aside with a fixed TTL; a failed lookup degrades to the empty set
// and is never surfaced to the caller.
type FriendService struct {
	Directory FriendDirectory
	Store     KeyValueStore
	TTL       time.Duration
}

const defaultFriendTTL = time.Minute

// AcquaintancesOf returns the participant's acquaintance set, from cache
// when fresh. Errors are logged and reported as "no known acquaintances".
func (fs *FriendService) AcquaintancesOf(ctx context.Context, name string) []string {
	cacheKey := "friends:" + name

	if cached, ok, err := fs.Store.Get(ctx, cacheKey); err == nil && ok {
		var friends []string
		if json.Unmarshal([]byte(cached), &friends) == nil {
			return friends
		}
	}

	friends, err := fs.Directory.AcquaintancesOf(ctx, name)
	if err != nil {
		log.Printf("Friend lookup failed for '%s', treating as empty: %v", name, err)
		return nil
	}

	ttl := fs.TTL
	if ttl == 0 {
		ttl = defaultFriendTTL
	}
	if data, err := json.Marshal(friends); err == nil {
		if err := fs.Store.Set(ctx, cacheKey, string(data), ttl); err != nil {
			log.Printf("Failed to cache friends for '%s': %v", name, err)
		}
	}
	return friends
}
