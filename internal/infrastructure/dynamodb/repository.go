package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"

	"farmaid-portal/internal/domain"
)

// Client wraps the DynamoDB connection to the single portal table.
// Partitions: ADMIN#<uid> markers, a CROP and a SCHEME collection
// partition with id-suffixed sort keys, and an APPLICATION partition
// keyed by owner and scheme so duplicates cannot exist by construction.
type Client struct {
	db        *awsv2dynamodb.Client
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	return &Client{db: awsv2dynamodb.NewFromConfig(cfg), tableName: tableName}, nil
}

func adminPK(uid string) string { return "ADMIN#" + uid }
func metaSK() string            { return "META" }

func cropsPK() string           { return "CROP" }
func cropSK(id string) string   { return "CROP#" + id }
func schemesPK() string         { return "SCHEME" }
func schemeSK(id string) string { return "SCHEME#" + id }

func grantsPK() string { return "APPLICATION" }
func grantSK(userID, schemeID string) string {
	return "USER#" + userID + "#SCHEME#" + schemeID
}
func grantUserPrefix(userID string) string { return "USER#" + userID + "#SCHEME#" }

func isConditionalCheckFailure(err error) bool {
	var condErr *awsv2types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func stringAttr(v string) awsv2types.AttributeValue {
	return &awsv2types.AttributeValueMemberS{Value: v}
}

type AdminRepository struct{ client *Client }

type CropRepository struct{ client *Client }

type SchemeRepository struct{ client *Client }

type GrantRepository struct{ client *Client }

func NewAdminRepository(client *Client) *AdminRepository   { return &AdminRepository{client: client} }
func NewCropRepository(client *Client) *CropRepository     { return &CropRepository{client: client} }
func NewSchemeRepository(client *Client) *SchemeRepository { return &SchemeRepository{client: client} }
func NewGrantRepository(client *Client) *GrantRepository   { return &GrantRepository{client: client} }

// IsAdmin reports whether an admin marker exists for the uid. Only
// presence matters; the marker carries no payload worth reading.
func (r *AdminRepository) IsAdmin(ctx context.Context, uid string) (bool, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetAdminMarker", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(adminPK(uid)),
				"SK": stringAttr(metaSK()),
			},
		})
		return e
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (r *CropRepository) Create(ctx context.Context, crop domain.Crop) error {
	item := map[string]any{
		"PK":          cropsPK(),
		"SK":          cropSK(crop.ID),
		"EntityType":  "CROP",
		"ID":          crop.ID,
		"CropName":    crop.Name,
		"Season":      crop.Season,
		"Location":    crop.Location,
		"Pesticides":  crop.Pesticides,
		"Description": crop.Description,
		"CreatedAt":   crop.CreatedAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutCrop", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		return err
	})
}

func (r *CropRepository) Update(ctx context.Context, crop domain.Crop) error {
	return xray.Capture(ctx, "DynamoDB.UpdateCrop", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(cropsPK()),
				"SK": stringAttr(cropSK(crop.ID)),
			},
			UpdateExpression: aws.String("SET CropName = :n, Season = :s, #l = :l, Pesticides = :p, Description = :d"),
			ExpressionAttributeNames: map[string]string{
				"#l": "Location",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n": stringAttr(crop.Name),
				":s": stringAttr(crop.Season),
				":l": stringAttr(crop.Location),
				":p": stringAttr(crop.Pesticides),
				":d": stringAttr(crop.Description),
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *CropRepository) Delete(ctx context.Context, id string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteCrop", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(cropsPK()),
				"SK": stringAttr(cropSK(id)),
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

type rawCrop struct {
	ID          string `dynamodbav:"ID"`
	Name        string `dynamodbav:"CropName"`
	Season      string `dynamodbav:"Season"`
	Location    string `dynamodbav:"Location"`
	Pesticides  string `dynamodbav:"Pesticides"`
	Description string `dynamodbav:"Description"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
}

func (raw rawCrop) toDomain() domain.Crop {
	createdAt, _ := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	return domain.Crop{
		ID:          raw.ID,
		Name:        raw.Name,
		Season:      raw.Season,
		Location:    raw.Location,
		Pesticides:  raw.Pesticides,
		Description: raw.Description,
		CreatedAt:   createdAt,
	}
}

func (r *CropRepository) List(ctx context.Context) ([]domain.Crop, error) {
	var out *awsv2dynamodb.QueryOutput
	err := xray.Capture(ctx, "DynamoDB.QueryCrops", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Query(ctx, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(r.client.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk": stringAttr(cropsPK()),
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	crops := make([]domain.Crop, 0, len(out.Items))
	for _, item := range out.Items {
		var raw rawCrop
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		crops = append(crops, raw.toDomain())
	}
	return crops, nil
}

func (r *SchemeRepository) Create(ctx context.Context, scheme domain.Scheme) error {
	item := map[string]any{
		"PK":          schemesPK(),
		"SK":          schemeSK(scheme.ID),
		"EntityType":  "SCHEME",
		"ID":          scheme.ID,
		"Title":       scheme.Title,
		"Provider":    scheme.Provider,
		"Eligibility": scheme.Eligibility,
		"Benefits":    scheme.Benefits,
		"Deadline":    scheme.Deadline,
		"CreatedAt":   scheme.CreatedAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutScheme", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		return err
	})
}

func (r *SchemeRepository) Update(ctx context.Context, scheme domain.Scheme) error {
	return xray.Capture(ctx, "DynamoDB.UpdateScheme", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(schemesPK()),
				"SK": stringAttr(schemeSK(scheme.ID)),
			},
			UpdateExpression: aws.String("SET Title = :t, #p = :p, Eligibility = :e, Benefits = :b, Deadline = :d"),
			ExpressionAttributeNames: map[string]string{
				"#p": "Provider",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": stringAttr(scheme.Title),
				":p": stringAttr(scheme.Provider),
				":e": stringAttr(scheme.Eligibility),
				":b": stringAttr(scheme.Benefits),
				":d": stringAttr(scheme.Deadline),
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *SchemeRepository) Delete(ctx context.Context, id string) error {
	return xray.Capture(ctx, "DynamoDB.DeleteScheme", func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(schemesPK()),
				"SK": stringAttr(schemeSK(id)),
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

type rawScheme struct {
	ID          string `dynamodbav:"ID"`
	Title       string `dynamodbav:"Title"`
	Provider    string `dynamodbav:"Provider"`
	Eligibility string `dynamodbav:"Eligibility"`
	Benefits    string `dynamodbav:"Benefits"`
	Deadline    string `dynamodbav:"Deadline"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
}

func (raw rawScheme) toDomain() domain.Scheme {
	createdAt, _ := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	return domain.Scheme{
		ID:          raw.ID,
		Title:       raw.Title,
		Provider:    raw.Provider,
		Eligibility: raw.Eligibility,
		Benefits:    raw.Benefits,
		Deadline:    raw.Deadline,
		CreatedAt:   createdAt,
	}
}

func (r *SchemeRepository) GetByID(ctx context.Context, id string) (domain.Scheme, error) {
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.GetScheme", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(schemesPK()),
				"SK": stringAttr(schemeSK(id)),
			},
		})
		return e
	})
	if err != nil {
		return domain.Scheme{}, err
	}
	if out.Item == nil {
		return domain.Scheme{}, domain.ErrNotFound
	}
	var raw rawScheme
	if err := attributevalue.UnmarshalMap(out.Item, &raw); err != nil {
		return domain.Scheme{}, err
	}
	return raw.toDomain(), nil
}

func (r *SchemeRepository) List(ctx context.Context) ([]domain.Scheme, error) {
	var out *awsv2dynamodb.QueryOutput
	err := xray.Capture(ctx, "DynamoDB.QuerySchemes", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Query(ctx, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(r.client.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk": stringAttr(schemesPK()),
			},
		})
		return e
	})
	if err != nil {
		return nil, err
	}
	schemes := make([]domain.Scheme, 0, len(out.Items))
	for _, item := range out.Items {
		var raw rawScheme
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		schemes = append(schemes, raw.toDomain())
	}
	return schemes, nil
}

// Create inserts an application under its composite owner+scheme key.
// The condition turns a second apply into ErrDuplicateApplication
// instead of a silent overwrite, with no read-then-write window.
func (r *GrantRepository) Create(ctx context.Context, app domain.GrantApplication) error {
	item := map[string]any{
		"PK":                grantsPK(),
		"SK":                grantSK(app.UserID, app.SchemeID),
		"EntityType":        "GRANT_APPLICATION",
		"ID":                app.ID,
		"SchemeID":          app.SchemeID,
		"SchemeTitle":       app.SchemeTitle,
		"UserID":            app.UserID,
		"UserName":          app.UserName,
		"UserEmail":         app.UserEmail,
		"ApplicationStatus": string(app.Status),
		"AppliedAt":         app.AppliedAt.Format(time.RFC3339Nano),
		"Notes":             app.Notes,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.PutApplication", func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrDuplicateApplication
		}
		return err
	})
}

type rawGrant struct {
	ID          string `dynamodbav:"ID"`
	SchemeID    string `dynamodbav:"SchemeID"`
	SchemeTitle string `dynamodbav:"SchemeTitle"`
	UserID      string `dynamodbav:"UserID"`
	UserName    string `dynamodbav:"UserName"`
	UserEmail   string `dynamodbav:"UserEmail"`
	Status      string `dynamodbav:"ApplicationStatus"`
	AppliedAt   string `dynamodbav:"AppliedAt"`
	Notes       string `dynamodbav:"Notes"`
}

func (raw rawGrant) toDomain() domain.GrantApplication {
	appliedAt, _ := time.Parse(time.RFC3339Nano, raw.AppliedAt)
	return domain.GrantApplication{
		ID:          raw.ID,
		SchemeID:    raw.SchemeID,
		SchemeTitle: raw.SchemeTitle,
		UserID:      raw.UserID,
		UserName:    raw.UserName,
		UserEmail:   raw.UserEmail,
		Status:      domain.GrantStatus(raw.Status),
		AppliedAt:   appliedAt,
		Notes:       raw.Notes,
	}
}

func (r *GrantRepository) query(ctx context.Context, segment string, input *awsv2dynamodb.QueryInput) ([]domain.GrantApplication, error) {
	var out *awsv2dynamodb.QueryOutput
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		var e error
		out, e = r.client.db.Query(ctx, input)
		return e
	})
	if err != nil {
		return nil, err
	}
	apps := make([]domain.GrantApplication, 0, len(out.Items))
	for _, item := range out.Items {
		var raw rawGrant
		if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
			return nil, err
		}
		apps = append(apps, raw.toDomain())
	}
	return apps, nil
}

func (r *GrantRepository) ListByUser(ctx context.Context, userID string) ([]domain.GrantApplication, error) {
	return r.query(ctx, "DynamoDB.QueryUserApplications", &awsv2dynamodb.QueryInput{
		TableName:              aws.String(r.client.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
			":pk": stringAttr(grantsPK()),
			":sk": stringAttr(grantUserPrefix(userID)),
		},
	})
}

func (r *GrantRepository) ListAll(ctx context.Context) ([]domain.GrantApplication, error) {
	return r.query(ctx, "DynamoDB.QueryAllApplications", &awsv2dynamodb.QueryInput{
		TableName:              aws.String(r.client.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
			":pk": stringAttr(grantsPK()),
		},
	})
}

// UpdateStatus is conditional on the record still being pending, so two
// admins racing to adjudicate the same application cannot both win. The
// follow-up read only distinguishes a missing record from a settled one.
func (r *GrantRepository) UpdateStatus(ctx context.Context, userID, schemeID string, status domain.GrantStatus) error {
	return xray.Capture(ctx, "DynamoDB.UpdateApplicationStatus", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(grantsPK()),
				"SK": stringAttr(grantSK(userID, schemeID)),
			},
			UpdateExpression: aws.String("SET ApplicationStatus = :s"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":s":       stringAttr(string(status)),
				":pending": stringAttr(string(domain.StatusPending)),
			},
			ConditionExpression: aws.String("attribute_exists(PK) AND ApplicationStatus = :pending"),
		})
		if !isConditionalCheckFailure(err) {
			return err
		}
		out, getErr := r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(r.client.tableName),
			Key: map[string]awsv2types.AttributeValue{
				"PK": stringAttr(grantsPK()),
				"SK": stringAttr(grantSK(userID, schemeID)),
			},
		})
		if getErr != nil {
			return getErr
		}
		if out.Item == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	})
}
