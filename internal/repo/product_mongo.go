package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ProductsCollection = "products"

type productDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ItemCode        string             `bson:"itemCode"`
	ItemDescription string             `bson:"itemDescription"`
	Unit            string             `bson:"unit"`
	MRP             float64            `bson:"mrp"`
	DP              float64            `bson:"dp"`
	NLC             float64            `bson:"nlc"`
	Percentage      float64            `bson:"percentage"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func newProductDocument(p models.Product) productDocument {
	return productDocument{
		ItemCode:        p.ItemCode,
		ItemDescription: p.ItemDescription,
		Unit:            p.Unit,
		MRP:             p.MRP,
		DP:              p.DP,
		NLC:             p.NLC,
		Percentage:      p.Percentage,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (d productDocument) model() models.Product {
	return models.Product{
		ID:              d.ID.Hex(),
		ItemCode:        d.ItemCode,
		ItemDescription: d.ItemDescription,
		Unit:            d.Unit,
		MRP:             d.MRP,
		DP:              d.DP,
		NLC:             d.NLC,
		Percentage:      d.Percentage,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

// EnsureIndexes creates the unique itemCode index.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "itemCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create itemCode index: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]models.Product, len(docs))
	for i, d := range docs {
		products[i] = d.model()
	}
	return products, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoProductRepository) GetByItemCode(ctx context.Context, itemCode string) (models.Product, error) {
	return r.findOne(ctx, bson.M{"itemCode": itemCode})
}

func (r *MongoProductRepository) ExistingItemCodes(ctx context.Context, itemCodes []string) (map[string]bool, error) {
	existing := map[string]bool{}
	if len(itemCodes) == 0 {
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"itemCode": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"itemCode": bson.M{"$in": itemCodes}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item codes: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		existing[d.ItemCode] = true
	}
	return existing, nil
}

func (r *MongoProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := newProductDocument(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	return doc.model(), nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := newProductDocument(p)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, err
	}
	if res.MatchedCount == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return doc.model(), nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// InsertMany issues one unordered insert. Per-document write errors (duplicate
// keys from a concurrent import) mark that document as failed; anything else
// is returned as an error.
func (r *MongoProductRepository) InsertMany(ctx context.Context, products []models.Product) (InsertManyResult, error) {
	var res InsertManyResult
	if len(products) == 0 {
		return res, nil
	}

	docs := make([]productDocument, len(products))
	batch := make([]any, len(products))
	for i, p := range products {
		docs[i] = newProductDocument(p)
		docs[i].ID = primitive.NewObjectID()
		batch[i] = docs[i]
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	failed := map[int]bool{}
	_, err := r.coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
			return res, fmt.Errorf("failed to insert products: %w", err)
		}
		for _, we := range bwe.WriteErrors {
			failed[we.Index] = true
		}
	}

	for i, d := range docs {
		if failed[i] {
			res.FailedKeys = append(res.FailedKeys, d.ItemCode)
			continue
		}
		res.Inserted = append(res.Inserted, d.model())
	}
	return res, nil
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.M) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc productDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return doc.model(), nil
}
