package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/domain/session"
	"breathe-backend/pkg/errors"
)

// SessionRepository implements ports.SessionRepository on DynamoDB
type SessionRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(client API, tableName, indexName string, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// sessionItem represents the DynamoDB item structure for a session record
type sessionItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK"`
	GSI1SK          string `dynamodbav:"GSI1SK"`
	EntityType      string `dynamodbav:"EntityType"`
	SessionID       string `dynamodbav:"SessionID"`
	UserID          string `dynamodbav:"UserID"`
	TechniqueID     string `dynamodbav:"TechniqueID"`
	OccurredAt      string `dynamodbav:"OccurredAt"`
	DurationSeconds int    `dynamodbav:"DurationSeconds"`
	Completed       bool   `dynamodbav:"Completed"`
	PreMood         *int   `dynamodbav:"PreMood,omitempty"`
	PostMood        *int   `dynamodbav:"PostMood,omitempty"`
	Rating          *int   `dynamodbav:"Rating,omitempty"`
	Notes           string `dynamodbav:"Notes,omitempty"`
}

func toSessionItem(r session.Record) sessionItem {
	occurred := r.OccurredAt.UTC().Format(sortableTime)
	return sessionItem{
		PK:              userPrefix + r.UserID,
		SK:              fmt.Sprintf("%s%s#%s", sessionPrefix, occurred, r.ID),
		GSI1PK:          sessionPrefix + r.ID,
		GSI1SK:          userPrefix + r.UserID,
		EntityType:      "SESSION",
		SessionID:       r.ID,
		UserID:          r.UserID,
		TechniqueID:     r.TechniqueID,
		OccurredAt:      occurred,
		DurationSeconds: r.DurationSeconds,
		Completed:       r.Completed,
		PreMood:         r.PreMood,
		PostMood:        r.PostMood,
		Rating:          r.Rating,
		Notes:           r.Notes,
	}
}

func (i sessionItem) record() (session.Record, error) {
	occurred, err := time.Parse(time.RFC3339Nano, i.OccurredAt)
	if err != nil {
		return session.Record{}, fmt.Errorf("invalid OccurredAt %q: %w", i.OccurredAt, err)
	}
	return session.Record{
		ID:              i.SessionID,
		UserID:          i.UserID,
		TechniqueID:     i.TechniqueID,
		OccurredAt:      occurred,
		DurationSeconds: i.DurationSeconds,
		Completed:       i.Completed,
		PreMood:         i.PreMood,
		PostMood:        i.PostMood,
		Rating:          i.Rating,
		Notes:           i.Notes,
	}, nil
}

// Save appends a record. Records are immutable, so an existing key is an error.
func (r *SessionRepository) Save(ctx context.Context, record session.Record) error {
	item, err := attributevalue.MarshalMap(toSessionItem(record))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}

	r.logger.Debug("Session saved",
		zap.String("userID", record.UserID),
		zap.String("sessionID", record.ID),
	)
	return nil
}

// GetByID looks the record up through the GSI1 session key
func (r *SessionRepository) GetByID(ctx context.Context, userID, id string) (session.Record, error) {
	keyExpr := expression.Key("GSI1PK").Equal(expression.Value(sessionPrefix + id)).
		And(expression.Key("GSI1SK").Equal(expression.Value(userPrefix + userID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return session.Record{}, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return session.Record{}, fmt.Errorf("failed to query session: %w", err)
	}
	if len(result.Items) == 0 {
		return session.Record{}, errors.NewNotFoundError("Session")
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return session.Record{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return item.record()
}

// ListByUser pages newest first. The offset is applied after the technique
// filter, so the store is read from the start of the partition.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string, filter ports.SessionFilter) ([]session.Record, error) {
	input, err := r.queryInput(userID, filter.TechniqueID, false)
	if err != nil {
		return nil, err
	}

	records := make([]session.Record, 0, max(filter.Limit, 0))
	skipped := 0
	err = r.each(ctx, input, func(rec session.Record) bool {
		if skipped < filter.Offset {
			skipped++
			return true
		}
		records = append(records, rec)
		return filter.Limit <= 0 || len(records) < filter.Limit
	})
	return records, err
}

// ListAllByUser returns every record of a user, oldest first
func (r *SessionRepository) ListAllByUser(ctx context.Context, userID string) ([]session.Record, error) {
	input, err := r.queryInput(userID, "", true)
	if err != nil {
		return nil, err
	}

	records := []session.Record{}
	err = r.each(ctx, input, func(rec session.Record) bool {
		records = append(records, rec)
		return true
	})
	return records, err
}

// CountByUser counts matching records without reading them
func (r *SessionRepository) CountByUser(ctx context.Context, userID string, filter ports.SessionFilter) (int, error) {
	input, err := r.queryInput(userID, filter.TechniqueID, true)
	if err != nil {
		return 0, err
	}
	input.Select = types.SelectCount

	count := 0
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count sessions: %w", err)
		}
		count += int(page.Count)
	}
	return count, nil
}

func (r *SessionRepository) queryInput(userID, techniqueID string, ascending bool) (*dynamodb.QueryInput, error) {
	keyExpr := expression.Key("PK").Equal(expression.Value(userPrefix + userID)).
		And(expression.Key("SK").BeginsWith(sessionPrefix))
	builder := expression.NewBuilder().WithKeyCondition(keyExpr)
	if techniqueID != "" {
		builder = builder.WithFilter(expression.Name("TechniqueID").Equal(expression.Value(techniqueID)))
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(ascending),
	}, nil
}

// each walks every page, stopping early when fn returns false. Items that
// fail to decode are logged and skipped.
func (r *SessionRepository) each(ctx context.Context, input *dynamodb.QueryInput, fn func(session.Record) bool) error {
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to query sessions: %w", err)
		}
		for _, raw := range page.Items {
			var item sessionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to parse session item", zap.Error(err))
				continue
			}
			rec, err := item.record()
			if err != nil {
				r.logger.Warn("Failed to parse session item", zap.Error(err))
				continue
			}
			if !fn(rec) {
				return nil
			}
		}
	}
	return nil
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
