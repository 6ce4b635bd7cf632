// Package dynamodb stores users and session records in a single DynamoDB
// table.
//
//	User profile:   PK=USER#<id>  SK=PROFILE                          GSI1PK=EMAIL#<email>  GSI1SK=USER#<id>
//	Session record: PK=USER#<id>  SK=SESSION#<occurredAt>#<sessionId> GSI1PK=SESSION#<id>   GSI1SK=USER#<id>
//
// occurredAt is written in UTC with a fixed nine digit fraction so that the
// sort key orders sessions chronologically.
package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of the DynamoDB client used by the repositories
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

const (
	userPrefix    = "USER#"
	sessionPrefix = "SESSION#"
	emailPrefix   = "EMAIL#"
	profileSK     = "PROFILE"

	// sortableTime is RFC 3339 with a fixed width fraction
	sortableTime = "2006-01-02T15:04:05.000000000Z07:00"
)

var _ API = (*dynamodb.Client)(nil)
