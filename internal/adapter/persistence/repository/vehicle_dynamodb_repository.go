package repository

import (
	"context"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// VehicleDynamoRepository reads and updates Vehicle entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: tenant_id-index (PK: tenant_id)
//   - GSI: source_request_id-index (PK: source_request_id)
//
// Inserts and deletes happen only inside DynamoTransactor.

type VehicleDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IVehicleRepository = (*VehicleDynamoRepository)(nil)

func NewVehicleDynamoRepository(ddb DynamoAPI, tables Tables) *VehicleDynamoRepository {
	return &VehicleDynamoRepository{
		ddb:       ddb,
		tableName: tables.withDefaults().Vehicles,
	}
}

func (r *VehicleDynamoRepository) GetByID(ctx context.Context, id string) (entities.Vehicle, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Vehicle{}, err
	}
	if len(out.Item) == 0 {
		return entities.Vehicle{}, nil
	}
	return unmarshalVehicle(out.Item)
}

func (r *VehicleDynamoRepository) ListBySourceRequestID(ctx context.Context, requestID string) ([]entities.Vehicle, error) {
	return r.queryIndex(ctx, sourceRequestIndexName, "source_request_id", requestID)
}

func (r *VehicleDynamoRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.Vehicle, error) {
	return r.queryIndex(ctx, tenantIndexName, "tenant_id", tenantID)
}

func (r *VehicleDynamoRepository) queryIndex(ctx context.Context, index, attr, value string) ([]entities.Vehicle, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})

	items := []entities.Vehicle{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			v, err := unmarshalVehicle(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
	return items, nil
}

func (r *VehicleDynamoRepository) MarkPhotoSyncFailed(ctx context.Context, id string, reason string) (entities.Vehicle, error) {
	return r.update(ctx, id, "",
		"SET #failed = :failed, #error = :error, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberBOOL{Value: true},
			":error":  &types.AttributeValueMemberS{Value: reason},
		},
		map[string]string{
			"#failed": "photo_sync_failed",
			"#error":  "photo_sync_error",
		},
	)
}

func (r *VehicleDynamoRepository) UpdateStatus(ctx context.Context, id string, from, to entities.VehicleStatus) (entities.Vehicle, error) {
	return r.update(ctx, id, "#status = :from",
		"SET #status = :to, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":to":   &types.AttributeValueMemberS{Value: string(to)},
		},
		map[string]string{
			"#status": "status",
		},
	)
}

func (r *VehicleDynamoRepository) update(
	ctx context.Context,
	id, condExpr, updateExpr string,
	values map[string]types.AttributeValue,
	names map[string]string,
) (entities.Vehicle, error) {
	values[":updated_at"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)}
	cond := "attribute_exists(#id)"
	if condExpr != "" {
		cond += " AND " + condExpr
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey("id", id),
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id", "#updated_at": "updated_at"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Vehicle{}, nil
		}
		return entities.Vehicle{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Vehicle{}, nil
	}
	return unmarshalVehicle(out.Attributes)
}

func unmarshalVehicle(raw map[string]types.AttributeValue) (entities.Vehicle, error) {
	var it vehicleItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Vehicle{}, err
	}
	return fromVehicleItem(it)
}
