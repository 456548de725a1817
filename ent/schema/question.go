package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question is a banked multiple-choice question. Identity is the
// (grade, board, topic, text) tuple; a question is never deleted,
// only flipped to invalid when a defect report is confirmed.
type Question struct {
	ent.Schema
}

func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.Int("grade").
			Min(6).
			Max(12).
			Comment("Grade level 6-12"),
		field.String("board").
			Comment("Curriculum board: CBSE, ICSE, IB"),
		field.String("topic").
			Comment("Free-text math topic, stored as entered"),
		field.String("difficulty").
			Comment("One of Easy, Medium, Hard"),
		field.Text("text").
			Comment("The question prompt"),
		field.JSON("options", []string{}).
			Comment("Exactly 4 answer options, in display order"),
		field.Int("answer").
			Min(0).
			Max(3).
			Comment("Index of the correct option"),
		field.Bool("valid").
			Default(true).
			Comment("False once a defect report is confirmed"),
		field.Time("reported_at").
			Optional().
			Nillable().
			Comment("When the question was confirmed invalid"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("grade", "board", "topic", "text").
			Unique(),
		index.Fields("grade", "board", "topic", "difficulty"),
		index.Fields("valid"),
	}
}
