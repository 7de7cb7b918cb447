package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoTransactor commits the acceptance and cancellation batches with
// TransactWriteItems. The request item is guarded on its version attribute,
// so a batch built from a stale read is cancelled and reported as
// interfaces.ErrWriteConflict.

type DynamoTransactor struct {
	ddb    DynamoAPI
	tables Tables
}

var _ interfaces.ITransactor = (*DynamoTransactor)(nil)

func NewDynamoTransactor(ddb DynamoAPI, tables Tables) *DynamoTransactor {
	return &DynamoTransactor{ddb: ddb, tables: tables.withDefaults()}
}

func (t *DynamoTransactor) CommitAcceptance(ctx context.Context, w interfaces.AcceptanceWrite) error {
	in, err := buildAcceptanceInput(t.tables, w)
	if err != nil {
		return err
	}
	return mapTransactError(t.ddb.TransactWriteItems(ctx, in))
}

func (t *DynamoTransactor) CommitCancellation(ctx context.Context, w interfaces.CancellationWrite) error {
	in, err := buildCancellationInput(t.tables, w)
	if err != nil {
		return err
	}
	if len(in.TransactItems) == 0 {
		return nil
	}
	return mapTransactError(t.ddb.TransactWriteItems(ctx, in))
}

// buildAcceptanceInput puts the new vehicle (must not exist) and the accepted
// request (must still be quote_sent at the expected version).
func buildAcceptanceInput(tables Tables, w interfaces.AcceptanceWrite) (*dynamodb.TransactWriteItemsInput, error) {
	vehicleAV, err := attributevalue.MarshalMap(toVehicleItem(w.Vehicle))
	if err != nil {
		return nil, err
	}
	req := w.Request
	req.Version = w.ExpectedVersion + 1
	requestAV, err := attributevalue.MarshalMap(toRequestItem(req))
	if err != nil {
		return nil, err
	}

	return &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(tables.Vehicles),
				Item:                vehicleAV,
				ConditionExpression: aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{
					"#id": "id",
				},
			}},
			{Put: &types.Put{
				TableName:           aws.String(tables.Requests),
				Item:                requestAV,
				ConditionExpression: aws.String("#version = :expected AND #status = :quote_sent"),
				ExpressionAttributeNames: map[string]string{
					"#version": "version",
					"#status":  "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":expected":   &types.AttributeValueMemberN{Value: strconv.FormatInt(w.ExpectedVersion, 10)},
					":quote_sent": &types.AttributeValueMemberS{Value: string(entities.RequestStatusQuoteSent)},
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			}},
		},
	}, nil
}

// buildCancellationInput stores the cancelled request (version guarded),
// deletes the vehicle and deletes every snapshotted PhotoSet.
func buildCancellationInput(tables Tables, w interfaces.CancellationWrite) (*dynamodb.TransactWriteItemsInput, error) {
	items := make([]types.TransactWriteItem, 0, len(w.PhotoLabels)+2)

	if w.Request != nil {
		req := *w.Request
		req.Version = w.ExpectedVersion + 1
		av, err := attributevalue.MarshalMap(toRequestItem(req))
		if err != nil {
			return nil, err
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName:           aws.String(tables.Requests),
			Item:                av,
			ConditionExpression: aws.String("#version = :expected"),
			ExpressionAttributeNames: map[string]string{
				"#version": "version",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(w.ExpectedVersion, 10)},
			},
		}})
	}

	if w.VehicleID != "" {
		items = append(items, types.TransactWriteItem{Delete: &types.Delete{
			TableName: aws.String(tables.Vehicles),
			Key:       stringKey("id", w.VehicleID),
		}})
		for _, label := range w.PhotoLabels {
			items = append(items, types.TransactWriteItem{Delete: &types.Delete{
				TableName: aws.String(tables.PhotoSets),
				Key:       photoSetKey(w.VehicleID, label),
			}})
		}
	}

	if len(items) > interfaces.MaxTransactItems {
		return nil, fmt.Errorf("cancellation batch has %d items, limit is %d", len(items), interfaces.MaxTransactItems)
	}
	return &dynamodb.TransactWriteItemsInput{TransactItems: items}, nil
}

// mapTransactError turns a cancelled transaction caused by a failed condition
// or a concurrent transaction into interfaces.ErrWriteConflict.
func mapTransactError(_ *dynamodb.TransactWriteItemsOutput, err error) error {
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed", "TransactionConflict":
				return fmt.Errorf("%w: %s", interfaces.ErrWriteConflict, tce.ErrorMessage())
			}
		}
		return err
	}
	var tcf *types.TransactionConflictException
	if errors.As(err, &tcf) {
		return fmt.Errorf("%w: %s", interfaces.ErrWriteConflict, tcf.ErrorMessage())
	}
	return err
}
