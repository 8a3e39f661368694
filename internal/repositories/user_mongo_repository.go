package repositories

import (
	"fmt"
	"time"

	"pasar/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the document collection holding user accounts.
const UsersCollection = "users"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d userDocument) model() models.User {
	return models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoUserRepository is a MongoDB implementation of UserRepository.
type MongoUserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoUserRepository creates a repository over the users collection of db.
func NewMongoUserRepository(db *mongo.Database, timeout time.Duration) *MongoUserRepository {
	return &MongoUserRepository{
		coll:    db.Collection(UsersCollection),
		timeout: timeout,
	}
}

// EnsureIndexes creates the unique email index that backs the email uniqueness check.
func (r *MongoUserRepository) EnsureIndexes() error {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// List retrieves a page of users.
func (r *MongoUserRepository) List(opts ListOptions) ([]models.User, error) {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, mongoListFilter(opts), mongoFindOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.model())
	}
	return users, nil
}

// GetByID retrieves a user by its hex ObjectID.
func (r *MongoUserRepository) GetByID(id string) (*models.User, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(filter)
}

// GetByEmail retrieves a user by email.
func (r *MongoUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.findOne(bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err = translateMongoError(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := doc.model()
	return &user, nil
}

// Create inserts a user and sets its generated ID.
func (r *MongoUserRepository) Create(user *models.User) error {
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", translateMongoError(err))
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

// Update sets name and email of an existing user.
func (r *MongoUserRepository) Update(id, name, email string) error {
	return r.updateOne(id, bson.M{"name": name, "email": email})
}

// UpdatePassword stores a new password digest.
func (r *MongoUserRepository) UpdatePassword(id, passwordHash string) error {
	return r.updateOne(id, bson.M{"password": passwordHash})
}

func (r *MongoUserRepository) updateOne(id string, set bson.M) error {
	filter, err := objectIDFilter(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	set["updated_at"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", translateMongoError(err))
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete physically removes a user.
func (r *MongoUserRepository) Delete(id string) error {
	filter, err := objectIDFilter(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
