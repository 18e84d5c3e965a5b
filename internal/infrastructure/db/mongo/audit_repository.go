package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// Insert persists an audit event to the audit_events collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"event_id":    event.ID,
		"action":      string(event.Action),
		"actor":       event.Actor,
		"outcome":     event.Outcome,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.ActorRole != "" {
		doc["actor_role"] = event.ActorRole
	}
	if event.TargetID != "" {
		doc["target_id"] = event.TargetID
	}
	if event.TargetName != "" {
		doc["target_name"] = event.TargetName
	}
	if event.Error != "" {
		doc["error"] = event.Error
	}

	_, err := r.db.Collection(auditCollection).InsertOne(ctx, doc)
	return err
}
