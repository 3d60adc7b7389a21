package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// DynamoDB key constants for the single-table design.
const (
	adminPK     = "ADMIN"
	skUser      = "USER#"
	skTemplate  = "TEMPLATE#"
	skBlacklist = "BLACKLIST#"
)

// Update expressions used by DynamoStore.
const (
	exprSetStatus      = "SET #status = :status"
	exprRecordUser     = "SET #name = if_not_exists(#name, :name), #id = if_not_exists(#id, :id), #status = if_not_exists(#status, :status)"
	exprAddCounter     = " ADD #counter :n"
	condItemExists     = "attribute_exists(PK)"
	attrCaptionCounter = "captionsGenerated"
	attrCommentCounter = "commentsGenerated"
)

// dynamoAPI is the subset of *dynamodb.Client used by DynamoStore.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoStore implements AdminStore using AWS DynamoDB.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
}

var _ AdminStore = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table.
// The client should be initialized from the shared AWS config.
func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

// --- Internal helpers ---

func itemKey(sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: adminPK},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// putItem marshals a domain object and writes it under the admin partition.
func (s *DynamoStore) putItem(ctx context.Context, sk string, data interface{}) error {
	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: adminPK}
	item["SK"] = &types.AttributeValueMemberS{Value: sk}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem SK=%s: %w", sk, err)
	}
	return nil
}

// deleteExisting removes an item, returning ErrNotFound if it was absent.
func (s *DynamoStore) deleteExisting(ctx context.Context, sk string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(sk),
		ConditionExpression: aws.String(condItemExists),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return fmt.Errorf("DeleteItem SK=%s: %w", sk, err)
	}
	return nil
}

// queryBySKPrefix returns all admin items whose SK begins with prefix.
func (s *DynamoStore) queryBySKPrefix(ctx context.Context, skPrefix string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :skPrefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: adminPK},
			":skPrefix": &types.AttributeValueMemberS{Value: skPrefix},
		},
	}

	var allItems []map[string]types.AttributeValue
	// DynamoDB returns up to 1MB per Query call.
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Query SK prefix=%s: %w", skPrefix, err)
		}
		allItems = append(allItems, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
	return allItems, nil
}

// setUserStatus updates an existing user's status; missing users are ignored.
func (s *DynamoStore) setUserStatus(ctx context.Context, username, status string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                &s.tableName,
		Key:                      itemKey(skUser + username),
		UpdateExpression:         aws.String(exprSetStatus),
		ConditionExpression:      aws.String(condItemExists),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil
		}
		return fmt.Errorf("UpdateItem user status %s: %w", username, err)
	}
	return nil
}

// --- AdminStore ---

func (s *DynamoStore) ListUsers(ctx context.Context) ([]User, error) {
	items, err := s.queryBySKPrefix(ctx, skUser)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(items))
	for _, item := range items {
		var u User
		if err := attributevalue.UnmarshalMap(item, &u); err != nil {
			log.Warn().Err(err).Msg("Skipping malformed user item")
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *DynamoStore) ListTemplates(ctx context.Context) ([]Template, error) {
	items, err := s.queryBySKPrefix(ctx, skTemplate)
	if err != nil {
		return nil, err
	}
	templates := make([]Template, 0, len(items))
	for _, item := range items {
		var t Template
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			log.Warn().Err(err).Msg("Skipping malformed template item")
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (s *DynamoStore) PutTemplate(ctx context.Context, t Template) (Template, error) {
	t, err := normalizeTemplate(t)
	if err != nil {
		return t, err
	}
	if err := s.putItem(ctx, skTemplate+t.ID, t); err != nil {
		return t, err
	}
	log.Debug().Str("templateId", t.ID).Msg("Template stored")
	return t, nil
}

func (s *DynamoStore) DeleteTemplate(ctx context.Context, id string) error {
	return s.deleteExisting(ctx, skTemplate+id)
}

func (s *DynamoStore) ListBlacklist(ctx context.Context) ([]string, error) {
	items, err := s.queryBySKPrefix(ctx, skBlacklist)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		var entry struct {
			Username string `dynamodbav:"username"`
		}
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil || entry.Username == "" {
			continue
		}
		names = append(names, entry.Username)
	}
	return names, nil
}

func (s *DynamoStore) AddToBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	entry := struct {
		Username string `dynamodbav:"username"`
	}{username}
	if err := s.putItem(ctx, skBlacklist+username, entry); err != nil {
		return err
	}
	return s.setUserStatus(ctx, username, StatusBanned)
}

func (s *DynamoStore) RemoveFromBlacklist(ctx context.Context, username string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	if err := s.deleteExisting(ctx, skBlacklist+username); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.setUserStatus(ctx, username, StatusActive)
}

func (s *DynamoStore) IsBlacklisted(ctx context.Context, username string) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       itemKey(skBlacklist + username),
	})
	if err != nil {
		return false, fmt.Errorf("GetItem blacklist %s: %w", username, err)
	}
	return result.Item != nil, nil
}

// RecordGeneration upserts the user and atomically bumps the counter.
func (s *DynamoStore) RecordGeneration(ctx context.Context, username string, tool tools.ID, n int) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	banned, err := s.IsBlacklisted(ctx, username)
	if err != nil {
		return err
	}
	status := StatusActive
	if banned {
		status = StatusBanned
	}

	expr := exprRecordUser
	names := map[string]string{"#name": "name", "#id": "id", "#status": "status"}
	values := map[string]types.AttributeValue{
		":name":   &types.AttributeValueMemberS{Value: username},
		":id":     &types.AttributeValueMemberS{Value: newUserID()},
		":status": &types.AttributeValueMemberS{Value: status},
	}

	captions, comments := counterDeltas(tool, n)
	counter, delta := attrCaptionCounter, captions
	if comments != 0 {
		counter, delta = attrCommentCounter, comments
	}
	if delta != 0 {
		expr += exprAddCounter
		names["#counter"] = counter
		values[":n"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)}
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       itemKey(skUser + username),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("UpdateItem user %s: %w", username, err)
	}
	return nil
}
