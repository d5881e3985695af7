package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumenpaints/erp-backend/internal/core/domain"
)

const rolesCollection = "user_roles"

// RoleRepository holds role-assignment documents keyed by provider
// subject id. Lookups for subjects without a document return
// domain.ErrNotFound; the caller decides the fallback.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	Subject    string `bson:"subject"`
	Role       string `bson:"role"`
	AssignedAt int64  `bson:"assigned_at"`
}

func (r *RoleRepository) RoleFor(ctx context.Context, subject string) (domain.Role, error) {
	var doc roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"subject": subject}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RoleUser, domain.ErrNotFound
		}
		return domain.RoleUser, fmt.Errorf("find role: %w", err)
	}

	role, ok := domain.ParseRole(doc.Role)
	if !ok {
		return domain.RoleUser, fmt.Errorf("find role: unknown role %q", doc.Role)
	}
	return role, nil
}

// Assign upserts the subject's role document.
func (r *RoleRepository) Assign(ctx context.Context, subject string, role domain.Role) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"subject": subject},
		bson.M{"$set": bson.M{
			"role":        role.String(),
			"assigned_at": time.Now().UTC().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
