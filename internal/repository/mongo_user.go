package repository

import (
	"context"
	"errors"
	"time"

	"github.com/worldatlas/worldatlas-go/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultUsersCollectionName is the collection holding user documents.
const DefaultUsersCollectionName = "users"

// userDocument is the stored form of a model.User.
type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	Password          string             `bson:"password,omitempty"`
	FavoriteCountries []string           `bson:"favoriteCountries"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	favorites := d.FavoriteCountries
	if favorites == nil {
		favorites = []string{}
	}
	return &model.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.Password,
		FavoriteCountries: favorites,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// MongoUserRepository stores users in a MongoDB collection.
// It's safe to use it concurrently from multiple goroutines.
type MongoUserRepository struct {
	collection *mongo.Collection
	hasher     PasswordHasher
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(collection *mongo.Collection, hasher PasswordHasher) *MongoUserRepository {
	return &MongoUserRepository{collection: collection, hasher: hasher}
}

// EnsureIndexes creates the unique email index that backs duplicate detection.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := BeforeSave(user, r.hasher); err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := userDocument{
		ID:                primitive.NewObjectID(),
		Name:              user.Name,
		Email:             user.Email,
		Password:          user.PasswordHash,
		FavoriteCountries: user.FavoriteCountries,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Save inserts user if it has no ID, otherwise updates it. The password
// field is only written when a new password was staged.
func (r *MongoUserRepository) Save(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		return r.Create(ctx, user)
	}

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return ErrInvalidID
	}

	rehash := user.PasswordModified()
	if err := BeforeSave(user, r.hasher); err != nil {
		return err
	}

	now := time.Now().UTC()
	set := bson.M{
		"name":              user.Name,
		"email":             user.Email,
		"favoriteCountries": user.FavoriteCountries,
		"updatedAt":         now,
	}
	if rehash {
		set["password"] = user.PasswordHash
	}

	res, err := r.collection.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

// FindByEmail retrieves a user, including the password hash, by exact email match.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID retrieves a user by ID. The password hash is projected out.
func (r *MongoUserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"password": 0}))
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}
