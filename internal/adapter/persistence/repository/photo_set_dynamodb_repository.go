package repository

import (
	"context"
	"fmt"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PhotoSetDynamoRepository persists PhotoSet child records in DynamoDB.
//
// Table requirements:
//   - PK: vehicle_id (string)
//   - SK: label (string)

type PhotoSetDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IPhotoSetRepository = (*PhotoSetDynamoRepository)(nil)

func NewPhotoSetDynamoRepository(ddb DynamoAPI, tables Tables) *PhotoSetDynamoRepository {
	return &PhotoSetDynamoRepository{
		ddb:       ddb,
		tableName: tables.withDefaults().PhotoSets,
	}
}

func (r *PhotoSetDynamoRepository) Put(ctx context.Context, p entities.PhotoSet) error {
	av, err := attributevalue.MarshalMap(toPhotoSetItem(p))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *PhotoSetDynamoRepository) ListByVehicleID(ctx context.Context, vehicleID string) ([]entities.PhotoSet, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("vehicle_id = :vid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":vid": &types.AttributeValueMemberS{Value: vehicleID},
		},
		ConsistentRead: aws.Bool(true),
	})

	items := []entities.PhotoSet{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it photoSetItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPhotoSetItem(it))
		}
	}
	return items, nil
}

// DeleteMany removes labels in BatchWriteItem chunks, resubmitting unprocessed
// items a bounded number of times.
func (r *PhotoSetDynamoRepository) DeleteMany(ctx context.Context, vehicleID string, labels []string) error {
	for start := 0; start < len(labels); start += maxBatchWriteItems {
		end := start + maxBatchWriteItems
		if end > len(labels) {
			end = len(labels)
		}
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, label := range labels[start:end] {
			reqs = append(reqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: photoSetKey(vehicleID, label)},
			})
		}

		pending := map[string][]types.WriteRequest{r.tableName: reqs}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt >= maxBatchRetries {
				return fmt.Errorf("batch delete photo sets: unprocessed items after %d attempts", attempt)
			}
			out, err := r.ddb.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

func photoSetKey(vehicleID, label string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"vehicle_id": &types.AttributeValueMemberS{Value: vehicleID},
		"label":      &types.AttributeValueMemberS{Value: label},
	}
}
