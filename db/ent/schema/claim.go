package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/db/ent/schema/utils"
)

type Claim struct{ ent.Schema }

func (Claim) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "claims"},
	}
}

func (Claim) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("session_id").NotEmpty(),
		// the human-facing synthetic identifier, e.g. SYN_9F8A7B6C
		field.String("claim_id").NotEmpty(),
		field.String("status").NotEmpty().
			Default(string(constants.ClaimStatusFormGenerated)).
			Validate(utils.EnumValidator(constants.ClaimStatuses...)),
		field.JSON("form_data", json.RawMessage{}).
			Optional(),
		field.JSON("missing_fields", json.RawMessage{}).
			Optional(),
		field.JSON("coverage", json.RawMessage{}).
			Optional(),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Claim) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "created_at"),
		index.Fields("claim_id"),
	}
}
