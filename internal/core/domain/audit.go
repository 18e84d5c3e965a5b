package domain

import "time"

// AuditAction names an audited operation.
type AuditAction string

const (
	AuditLoginSuccess    AuditAction = "LOGIN_SUCCESS"
	AuditLoginFailed     AuditAction = "LOGIN_FAILED"
	AuditUserCreated     AuditAction = "USER_CREATED"
	AuditUserUpdated     AuditAction = "USER_UPDATED"
	AuditUserSelfUpdated AuditAction = "USER_SELF_UPDATED"
	AuditUserDeleted     AuditAction = "USER_DELETED"
	AuditRoleCreated     AuditAction = "ROLE_CREATED"
	AuditRoleUpdated     AuditAction = "ROLE_UPDATED"
	AuditRoleDeleted     AuditAction = "ROLE_DELETED"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	// SystemActor is recorded when no authenticated identity is attached.
	SystemActor = "SYSTEM"
)

// AuditEvent records who did what to which entity.
type AuditEvent struct {
	ID         string      `json:"id" bson:"event_id"`
	Action     AuditAction `json:"action" bson:"action"`
	Actor      string      `json:"actor" bson:"actor"`
	ActorRole  string      `json:"actor_role,omitempty" bson:"actor_role,omitempty"`
	TargetID   string      `json:"target_id,omitempty" bson:"target_id,omitempty"`
	TargetName string      `json:"target_name,omitempty" bson:"target_name,omitempty"`
	Outcome    string      `json:"outcome" bson:"outcome"`
	Error      string      `json:"error,omitempty" bson:"error,omitempty"`
	Timestamp  time.Time   `json:"timestamp" bson:"timestamp"`
}
