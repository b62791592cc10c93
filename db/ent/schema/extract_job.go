package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/db/ent/schema/utils"
)

type ExtractJob struct{ ent.Schema }

func (ExtractJob) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "extract_job"},
	}
}

func (ExtractJob) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		// explicit FK
		field.UUID("document_id", uuid.UUID{}),
		field.String("session_id").NotEmpty(),
		field.Time("started_at").Default(time.Now),
		field.Time("finished_at").Optional().Nillable(),
		field.String("status").Optional().Nillable().
			Validate(utils.EnumValidator(constants.JobStatuses...)),
		field.String("error_message").Optional().Nillable(),
		// which extraction path produced the fields: llm, patterns, structured
		field.String("source").Optional().Nillable(),
		field.Bool("needs_review").Default(false),
		field.JSON("extracted_json", json.RawMessage{}).
			Optional(),
		field.String("model_name").Optional().Nillable(),
		field.JSON("model_params", json.RawMessage{}).
			Optional(),
	}
}

func (ExtractJob) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("jobs").
			Field("document_id").
			Unique().
			Required(),
	}
}

func (ExtractJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "status", "started_at"),
		index.Fields("document_id"),
	}
}
