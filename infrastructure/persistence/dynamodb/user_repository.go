package dynamodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"breathe-backend/application/ports"
	"breathe-backend/domain/favorites"
	"breathe-backend/domain/user"
	"breathe-backend/pkg/errors"
)

// UserRepository implements ports.UserRepository on DynamoDB
type UserRepository struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client API, tableName, indexName string, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

type userItem struct {
	PK            string   `dynamodbav:"PK"`
	SK            string   `dynamodbav:"SK"`
	GSI1PK        string   `dynamodbav:"GSI1PK"`
	GSI1SK        string   `dynamodbav:"GSI1SK"`
	EntityType    string   `dynamodbav:"EntityType"`
	UserID        string   `dynamodbav:"UserID"`
	Email         string   `dynamodbav:"Email"`
	Name          string   `dynamodbav:"Name"`
	Goal          string   `dynamodbav:"Goal,omitempty"`
	Notifications bool     `dynamodbav:"Notifications"`
	DarkMode      bool     `dynamodbav:"DarkMode"`
	ReminderTime  string   `dynamodbav:"ReminderTime,omitempty"`
	Favorites     []string `dynamodbav:"Favorites"`
	CreatedAt     string   `dynamodbav:"CreatedAt"`
	UpdatedAt     string   `dynamodbav:"UpdatedAt"`
	Version       int      `dynamodbav:"Version"`
}

func toUserItem(u *user.User) userItem {
	return userItem{
		PK:            userPrefix + u.ID,
		SK:            profileSK,
		GSI1PK:        emailPrefix + u.Email,
		GSI1SK:        userPrefix + u.ID,
		EntityType:    "USER",
		UserID:        u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Goal:          u.Goal,
		Notifications: u.Settings.Notifications,
		DarkMode:      u.Settings.DarkMode,
		ReminderTime:  u.Settings.ReminderTime,
		Favorites:     u.FavoriteIDs(),
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     u.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Version:       u.Version,
	}
}

func (i userItem) user() *user.User {
	createdAt, _ := time.Parse(time.RFC3339Nano, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, i.UpdatedAt)
	return &user.User{
		ID:    i.UserID,
		Email: i.Email,
		Name:  i.Name,
		Goal:  i.Goal,
		Settings: user.Settings{
			Notifications: i.Notifications,
			DarkMode:      i.DarkMode,
			ReminderTime:  i.ReminderTime,
		},
		Favorites: favorites.New(i.Favorites...),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Version:   i.Version,
	}
}

// GetByID retrieves the profile item of a user
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPrefix + id},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return nil, errors.NewNotFoundError("User")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return item.user(), nil
}

// GetByEmail looks the user up through the GSI1 email key
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	keyExpr := expression.Key("GSI1PK").Equal(expression.Value(emailPrefix + user.NormalizeEmail(email)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
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
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, errors.NewNotFoundError("User")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return item.user(), nil
}

// Save writes the whole profile item if nobody else wrote it since u was
// loaded. A new user must not exist yet.
func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	next := toUserItem(u)
	next.Version = u.Version + 1
	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	cond := expression.Name("PK").AttributeNotExists()
	if u.Version > 0 {
		cond = expression.Name("Version").Equal(expression.Value(u.Version))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
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
		var condErr *types.ConditionalCheckFailedException
		if stderrors.As(err, &condErr) {
			r.logger.Debug("User save lost to a newer version",
				zap.String("userID", u.ID),
				zap.Int("version", u.Version),
			)
			return errors.NewConcurrencyError("User")
		}
		return fmt.Errorf("failed to put user: %w", err)
	}

	u.Version = next.Version
	r.logger.Debug("User saved", zap.String("userID", u.ID), zap.Int("version", u.Version))
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
