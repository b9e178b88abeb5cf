package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/contacts-api/internal/domain"
)

// ContactRepo provides typed DynamoDB operations for the contacts table.
//
// The table is keyed (owner_id, contact_id), and every operation here takes
// the owner id and folds it into the key or key condition. There is no
// unscoped access path: a contact belonging to another owner is
// indistinguishable from one that does not exist.
type ContactRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewContactRepo(client *dynamodb.Client, tableName string) *ContactRepo {
	return &ContactRepo{client: client, tableName: tableName}
}

func (r *ContactRepo) Put(ctx context.Context, c *domain.Contact) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ContactRepo) Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       ownerKey(ownerID, contactID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, domain.ErrContactNotFound
	}
	var c domain.Contact
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns all contacts for ownerID, following Query pagination
// until the partition is exhausted. Items come back in contact_id (ULID)
// order, which is creation order.
func (r *ContactRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    aws.String("owner_id = :o"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":o": &types.AttributeValueMemberS{Value: ownerID}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Contact
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		contacts = append(contacts, page...)
		if out.LastEvaluatedKey == nil {
			return contacts, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// GetByEmail looks a contact up via the email GSI, ignoring ownership.
// Only used to enforce the table-wide contact email uniqueness invariant;
// it deliberately returns nothing but existence to its callers.
func (r *ContactRepo) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("email = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, domain.ErrContactNotFound
	}
	var c domain.Contact
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the contact and returns its prior state, or
// domain.ErrContactNotFound when no row matched the owner-scoped key.
func (r *ContactRepo) Delete(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          ownerKey(ownerID, contactID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Attributes) == 0 {
		return nil, domain.ErrContactNotFound
	}
	var c domain.Contact
	if err := attributevalue.UnmarshalMap(out.Attributes, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
