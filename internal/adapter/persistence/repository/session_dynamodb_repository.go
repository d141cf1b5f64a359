package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"paystation_two_party/internal/domain/entities"
	"paystation_two_party/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultSessionsTableName = "sessions"

// dynamoAPI is the subset of *dynamodb.Client the session repository uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type sessionItem struct {
	ID         string `dynamodbav:"id"`
	CreatedAt  string `dynamodbav:"created_at"`
	LastSeenAt string `dynamodbav:"last_seen_at"`
	ExpiresAt  int64  `dynamodbav:"expires_at"`
}

// SessionDynamoRepository persists sessions in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - TTL enabled on expires_at (unix seconds)
//
// DynamoDB deletes expired items lazily, so reads also filter on expires_at.

type SessionDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.ISessionRepository = (*SessionDynamoRepository)(nil)

func NewSessionDynamoRepository(ddb *dynamodb.Client, tableName string) *SessionDynamoRepository {
	return newSessionDynamoRepository(ddb, tableName)
}

func newSessionDynamoRepository(ddb dynamoAPI, tableName string) *SessionDynamoRepository {
	if tableName == "" {
		tableName = DefaultSessionsTableName
	}
	return &SessionDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *SessionDynamoRepository) Create(ctx context.Context, s entities.Session) (entities.Session, error) {
	av, err := attributevalue.MarshalMap(toSessionItem(s))
	if err != nil {
		return entities.Session{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Session{}, err
	}
	return s, nil
}

func (r *SessionDynamoRepository) GetByID(ctx context.Context, id string) (entities.Session, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Session{}, err
	}
	if len(out.Item) == 0 {
		return entities.Session{}, nil
	}

	var it sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Session{}, err
	}
	s := fromSessionItem(it)
	if s.Expired(time.Now()) {
		return entities.Session{}, nil
	}
	return s, nil
}

func (r *SessionDynamoRepository) Touch(ctx context.Context, id string, lastSeenAt, expiresAt time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #last_seen_at = :last_seen_at, #expires_at = :expires_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":           "id",
			"#last_seen_at": "last_seen_at",
			"#expires_at":   "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":last_seen_at": &types.AttributeValueMemberS{Value: lastSeenAt.UTC().Format(time.RFC3339Nano)},
			":expires_at":   &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt.Unix(), 10)},
		},
	})
	if err != nil {
		// removed by TTL between read and touch; the next request starts a new session
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil
		}
		return err
	}
	return nil
}

func toSessionItem(s entities.Session) sessionItem {
	return sessionItem{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339Nano),
		LastSeenAt: s.LastSeenAt.UTC().Format(time.RFC3339Nano),
		ExpiresAt:  s.ExpiresAt.Unix(),
	}
}

func fromSessionItem(it sessionItem) entities.Session {
	created, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	lastSeen, _ := time.Parse(time.RFC3339Nano, it.LastSeenAt)
	var expires time.Time
	if it.ExpiresAt > 0 {
		expires = time.Unix(it.ExpiresAt, 0).UTC()
	}
	return entities.Session{
		ID:         it.ID,
		CreatedAt:  created,
		LastSeenAt: lastSeen,
		ExpiresAt:  expires,
	}
}
