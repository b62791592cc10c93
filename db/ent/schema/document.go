package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/medclaim-ai/claims-engine/constants"
	"github.com/medclaim-ai/claims-engine/db/ent/schema/utils"
)

type Document struct{ ent.Schema }

func (Document) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "documents"},
	}
}

func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("session_id").NotEmpty(),
		field.String("document_type").NotEmpty().
			Validate(utils.EnumValidator(constants.DocumentTypes...)),
		field.String("raw_text").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.JSON("extracted_data", json.RawMessage{}).
			Optional(),
		field.Bool("needs_review").Default(false),
		field.Time("created_at").Default(time.Now),
	}
}

func (Document) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE document -> MANY jobs
		edge.To("jobs", ExtractJob.Type),
	}
}

func (Document) Indexes() []ent.Index {
	return []ent.Index{
		// one policy and one invoice per session
		index.Fields("session_id", "document_type").Unique(),
	}
}
