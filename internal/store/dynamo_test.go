package store

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory table that understands the handful of
// expressions DynamoStore issues. Query pages at two items to exercise
// LastEvaluatedKey handling.
type fakeDynamo struct {
	mu      sync.Mutex
	items   map[string]map[string]types.AttributeValue // by SK
	queries int
	failOn  string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func skOf(key map[string]types.AttributeValue) string {
	return key["SK"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "PutItem" {
		return nil, errors.New("boom")
	}
	f.items[skOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[skOf(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sk := skOf(in.Key)
	if _, ok := f.items[sk]; !ok && aws.ToString(in.ConditionExpression) == condItemExists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional request failed")}
	}
	delete(f.items, sk)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sk := skOf(in.Key)
	item, ok := f.items[sk]
	if !ok {
		if aws.ToString(in.ConditionExpression) == condItemExists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional request failed")}
		}
		item = map[string]types.AttributeValue{"PK": in.Key["PK"], "SK": in.Key["SK"]}
		f.items[sk] = item
	}

	expr := aws.ToString(in.UpdateExpression)
	switch {
	case expr == exprSetStatus:
		item["status"] = in.ExpressionAttributeValues[":status"]
	case strings.HasPrefix(expr, exprRecordUser):
		for attr, placeholder := range map[string]string{"name": ":name", "id": ":id", "status": ":status"} {
			if _, exists := item[attr]; !exists {
				item[attr] = in.ExpressionAttributeValues[placeholder]
			}
		}
		if strings.HasSuffix(expr, exprAddCounter) {
			counter := in.ExpressionAttributeNames["#counter"]
			delta, _ := strconv.ParseInt(in.ExpressionAttributeValues[":n"].(*types.AttributeValueMemberN).Value, 10, 64)
			var current int64
			if n, ok := item[counter].(*types.AttributeValueMemberN); ok {
				current, _ = strconv.ParseInt(n.Value, 10, 64)
			}
			item[counter] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
		}
	default:
		return nil, errors.New("unexpected update expression: " + expr)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.failOn == "Query" {
		return nil, errors.New("boom")
	}
	prefix := in.ExpressionAttributeValues[":skPrefix"].(*types.AttributeValueMemberS).Value

	var keys []string
	for sk := range f.items {
		if strings.HasPrefix(sk, prefix) {
			keys = append(keys, sk)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := skOf(in.ExclusiveStartKey)
		for start < len(keys) && keys[start] <= after {
			start++
		}
	}
	end := min(start+2, len(keys))

	out := &dynamodb.QueryOutput{}
	for _, sk := range keys[start:end] {
		out.Items = append(out.Items, f.items[sk])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = itemKey(keys[end-1])
	}
	return out, nil
}

func newTestDynamoStore(f *fakeDynamo) *DynamoStore {
	return &DynamoStore{client: f, tableName: "admin-test"}
}

func TestDynamoStore(t *testing.T) {
	runAdminStoreContract(t, func() AdminStore { return newTestDynamoStore(newFakeDynamo()) })
}

func TestDynamoStore_Pagination(t *testing.T) {
	f := newFakeDynamo()
	s := newTestDynamoStore(f)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if _, err := s.PutTemplate(ctx, Template{ID: name, Name: name, Prompt: "p", Category: "c"}); err != nil {
			t.Fatal(err)
		}
	}
	f.queries = 0

	list, err := s.ListTemplates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Errorf("expected 5 templates across pages, got %d", len(list))
	}
	if f.queries != 3 {
		t.Errorf("expected 3 Query pages, got %d", f.queries)
	}
}

func TestDynamoStore_Errors(t *testing.T) {
	f := newFakeDynamo()
	f.failOn = "Query"
	s := newTestDynamoStore(f)

	if _, err := s.ListUsers(context.Background()); err == nil || !strings.Contains(err.Error(), "Query SK prefix=USER#") {
		t.Errorf("unexpected error: %v", err)
	}

	f.failOn = "PutItem"
	if _, err := s.PutTemplate(context.Background(), Template{Name: "n", Prompt: "p", Category: "c"}); err == nil {
		t.Error("expected PutItem error")
	}
}

func TestDynamoStore_Keys(t *testing.T) {
	f := newFakeDynamo()
	s := newTestDynamoStore(f)
	ctx := context.Background()

	if err := s.AddToBlacklist(ctx, "bob"); err != nil {
		t.Fatal(err)
	}
	mustRecord(t, s, "carol", "caption", 1)

	for _, sk := range []string{"BLACKLIST#bob", "USER#carol"} {
		item, ok := f.items[sk]
		if !ok {
			t.Errorf("missing item %s", sk)
			continue
		}
		if pk := item["PK"].(*types.AttributeValueMemberS).Value; pk != "ADMIN" {
			t.Errorf("%s PK = %q", sk, pk)
		}
	}
}
