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
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

const usersCollection = "users"

// IdentityRepository is the identity provider backed by the document
// store: credential sign-in, sign-up and sign-out against the users
// collection. The document's object id doubles as the provider subject.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    int64              `bson:"created_at"`
	SignedOutAt  int64              `bson:"signed_out_at,omitempty"`
}

// Authenticate returns the account for handle+secret, or nil when the
// handle is unknown or the secret does not match. Only infrastructure
// failures surface as errors.
func (r *IdentityRepository) Authenticate(ctx context.Context, handle, secret string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": handle}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(secret)) != nil {
		return nil, nil
	}

	return &domain.User{
		Subject:      doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
	}, nil
}

// CreateUser registers a new account. The secret arrives pre-hashed
// from the session manager. Returns domain.ErrUserExists when the
// handle is taken (unique index on email).
func (r *IdentityRepository) CreateUser(ctx context.Context, handle, secretHash, name string) (string, error) {
	doc := userDoc{
		Email:        handle,
		Name:         name,
		PasswordHash: secretHash,
		CreatedAt:    time.Now().UTC().Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// SignOut stamps the account's provider-side sign-out time.
func (r *IdentityRepository) SignOut(ctx context.Context, subject string) error {
	oid, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return fmt.Errorf("sign out: bad subject %q: %w", subject, err)
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"signed_out_at": time.Now().UTC().Unix()},
	})
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index backing duplicate-handle
// detection.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
