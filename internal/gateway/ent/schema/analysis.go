package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Analysis holds the schema definition for one stored snippet analysis.
type Analysis struct {
	ent.Schema
}

func (Analysis) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "analyses"},
	}
}

// Fields of the Analysis.
func (Analysis) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Unique().
			Immutable(),
		field.String("backend").
			NotEmpty(),
		field.String("language").
			NotEmpty(),
		field.Text("source_text"),
		// JSON-encoded result body.
		field.Text("result"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Indexes of the Analysis.
func (Analysis) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}
