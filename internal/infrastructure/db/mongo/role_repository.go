package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/user-api/internal/core/domain"
)

const rolesCollection = "roles"

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (mr mongoRole) toDomain() *domain.Role {
	return &domain.Role{
		ID:          mr.ID.Hex(),
		Name:        mr.Name,
		Description: mr.Description,
		CreatedAt:   unixToTime(mr.CreatedAt),
		UpdatedAt:   unixToTime(mr.UpdatedAt),
	}
}

// Create inserts a new role document.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoRole{
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt.Unix(),
		UpdatedAt:   role.UpdatedAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert role: %w", duplicateKeyError(err, "name"))
	}

	created := *role
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(role.ID)
	if err != nil {
		return nil, domain.RoleNotFound("id", role.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        role.Name,
		"description": role.Description,
		"updated_at":  role.UpdatedAt.Unix(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", duplicateKeyError(err, "name"))
	}
	if res.MatchedCount == 0 {
		return nil, domain.RoleNotFound("id", role.ID)
	}

	updated := *role
	return &updated, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.RoleNotFound("id", id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.RoleNotFound("id", id)
	}
	return nil
}

// FindByID retrieves a role by its hex object id.
func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.RoleNotFound("id", id)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, "id", id)
}

// FindByName resolves a role reference.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name}, "name", name)
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M, field, value string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRole
	if err := r.col.FindOne(ctx, filter).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.RoleNotFound(field, value)
		}
		return nil, fmt.Errorf("find role by %s: %w", field, err)
	}
	return mr.toDomain(), nil
}

// List returns every role ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	roles := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		roles = append(roles, d.toDomain())
	}
	return roles, nil
}

// Taken implements ports.UniquenessOracle for role names.
func (r *RoleRepository) Taken(ctx context.Context, field, value, excludeID string) (bool, error) {
	if field != "name" {
		return false, fmt.Errorf("field %q is not unique", field)
	}
	q := bson.M{"name": value}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			q["_id"] = bson.M{"$ne": oid}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, q, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count roles by name: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates necessary indexes on the roles collection.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(uniqueIndexName("name")),
	})
	return err
}
