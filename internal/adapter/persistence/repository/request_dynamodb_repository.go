package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"partner_repairs/internal/domain/entities"
	"partner_repairs/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RequestDynamoRepository persists Request entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: tenant_id-index (PK: tenant_id)
//
// Every write bumps the numeric version attribute; the transactor guards the
// acceptance and cancellation batches on it.

type RequestDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IRequestRepository = (*RequestDynamoRepository)(nil)

func NewRequestDynamoRepository(ddb DynamoAPI, tables Tables) *RequestDynamoRepository {
	return &RequestDynamoRepository{
		ddb:       ddb,
		tableName: tables.withDefaults().Requests,
	}
}

func (r *RequestDynamoRepository) Create(ctx context.Context, req entities.Request) (entities.Request, error) {
	av, err := attributevalue.MarshalMap(toRequestItem(req))
	if err != nil {
		return entities.Request{}, err
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
		if isConditionalCheckFailed(err) {
			return entities.Request{}, nil
		}
		return entities.Request{}, err
	}
	return req, nil
}

func (r *RequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.Request, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Request{}, err
	}
	if len(out.Item) == 0 {
		return entities.Request{}, nil
	}
	return unmarshalRequest(out.Item)
}

// GetByIDs resolves ids in BatchGetItem pages. Missing ids are absent from
// the result.
func (r *RequestDynamoRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entities.Request, error) {
	out := make(map[string]entities.Request, len(ids))
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, stringKey("id", id))
	}

	for start := 0; start < len(keys); start += maxBatchGetKeys {
		end := start + maxBatchGetKeys
		if end > len(keys) {
			end = len(keys)
		}
		pending := map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys[start:end], ConsistentRead: aws.Bool(true)},
		}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt >= maxBatchRetries {
				return nil, fmt.Errorf("batch get requests: unprocessed keys after %d attempts", attempt)
			}
			res, err := r.ddb.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return nil, err
			}
			for _, raw := range res.Responses[r.tableName] {
				req, err := unmarshalRequest(raw)
				if err != nil {
					return nil, err
				}
				out[req.ID] = req
			}
			pending = res.UnprocessedKeys
		}
	}
	return out, nil
}

func (r *RequestDynamoRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.Request, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(tenantIndexName),
		KeyConditionExpression: aws.String("tenant_id = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberS{Value: tenantID},
		},
	})

	items := []entities.Request{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			req, err := unmarshalRequest(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, req)
		}
	}
	return items, nil
}

func (r *RequestDynamoRepository) UpdateQuote(ctx context.Context, id string, quote entities.Quote, from []entities.RequestStatus, to entities.RequestStatus) (entities.Request, error) {
	qav, err := attributevalue.Marshal(toQuoteItem(&quote))
	if err != nil {
		return entities.Request{}, err
	}

	return r.update(ctx, id, func(now string) (string, string, map[string]types.AttributeValue, map[string]string) {
		vals := map[string]types.AttributeValue{
			":quote":      qav,
			":to":         &types.AttributeValueMemberS{Value: string(to)},
			":one":        &types.AttributeValueMemberN{Value: "1"},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		placeholders := make([]string, 0, len(from))
		for i, s := range from {
			ph := fmt.Sprintf(":from%d", i)
			vals[ph] = &types.AttributeValueMemberS{Value: string(s)}
			placeholders = append(placeholders, ph)
		}
		update := "SET #quote = :quote, #status = :to, #updated_at = :updated_at ADD #version :one"
		cond := ""
		if len(placeholders) > 0 {
			cond = "#status IN (" + strings.Join(placeholders, ", ") + ")"
		}
		names := map[string]string{
			"#quote":      "quote",
			"#status":     "status",
			"#updated_at": "updated_at",
			"#version":    "version",
		}
		return update, cond, vals, names
	})
}

// SelectVariant is a plain conditional update. Concurrent selections are last
// write wins; acceptance re-reads the request inside its transaction.
func (r *RequestDynamoRepository) SelectVariant(ctx context.Context, id string, key entities.VariantKey) (entities.Request, error) {
	return r.update(ctx, id, func(now string) (string, string, map[string]types.AttributeValue, map[string]string) {
		update := "SET #quote.#chosen = :key, #updated_at = :updated_at ADD #version :one"
		cond := "#status = :quote_sent AND attribute_exists(#quote.#variants.#key)"
		vals := map[string]types.AttributeValue{
			":key":        &types.AttributeValueMemberS{Value: string(key)},
			":quote_sent": &types.AttributeValueMemberS{Value: string(entities.RequestStatusQuoteSent)},
			":one":        &types.AttributeValueMemberN{Value: "1"},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#quote":      "quote",
			"#chosen":     "chosen_variant",
			"#variants":   "variants",
			"#key":        string(key),
			"#status":     "status",
			"#updated_at": "updated_at",
			"#version":    "version",
		}
		return update, cond, vals, names
	})
}

func (r *RequestDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr, condExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Request, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, condExpr, values, names := build(now)
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
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Request{}, nil
		}
		return entities.Request{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Request{}, nil
	}
	return unmarshalRequest(out.Attributes)
}

func unmarshalRequest(raw map[string]types.AttributeValue) (entities.Request, error) {
	var it requestItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Request{}, err
	}
	return fromRequestItem(it)
}
