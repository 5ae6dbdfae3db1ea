// Package mongodb stores users in a MongoDB collection. Email uniqueness is
// enforced by a unique index created by EnsureIndexes.
package mongodb

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	auth "github.com/goliatone/go-credentials"
)

const (
	DefaultDatabase   = "auth"
	DefaultCollection = "users"
	emailIndexName    = "users_email_key"
)

// userDocument is the stored form of auth.User.
type userDocument struct {
	ID           string    `bson:"_id"`
	FullName     string    `bson:"fullName"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func toDocument(u *auth.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func (d userDocument) toUser() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "stored user has an invalid id").
			WithMetadata(map[string]any{
				"id": d.ID,
			})
	}
	return &auth.User{
		ID:           id,
		FullName:     d.FullName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// Users is the MongoDB auth.UserStore.
type Users struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ auth.UserStore = (*Users)(nil)

// Connect dials uri and returns a store over its database. The database
// named in the uri path is used, DefaultDatabase otherwise.
func Connect(ctx context.Context, uri string) (*Users, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse mongodb uri")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to connect to mongodb")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ping mongodb")
	}

	database := cs.Database
	if database == "" {
		database = DefaultDatabase
	}

	return NewUsers(client, client.Database(database).Collection(DefaultCollection)), nil
}

// NewUsers wraps an existing collection. client may be nil when the caller
// owns the connection.
func NewUsers(client *mongo.Client, collection *mongo.Collection) *Users {
	return &Users{
		client:     client,
		collection: collection,
	}
}

// EnsureIndexes creates the unique email index.
func (u *Users) EnsureIndexes(ctx context.Context) error {
	_, err := u.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create email index")
	}
	return nil
}

// Migrate is EnsureIndexes; documents need no schema.
func (u *Users) Migrate(ctx context.Context) error {
	return u.EnsureIndexes(ctx)
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	var doc userDocument
	err := u.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrRecordNotFound
		}
		return nil, err
	}
	return doc.toUser()
}

func (u *Users) Insert(ctx context.Context, user *auth.User) (*auth.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	doc := toDocument(user)
	if _, err := u.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, auth.ErrDuplicateRecord
		}
		return nil, err
	}

	return doc.toUser()
}

// Close disconnects the client, if this store owns one.
func (u *Users) Close() error {
	if u.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return u.client.Disconnect(ctx)
}
