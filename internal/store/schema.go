package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// UserStatsColumns holds the columns for the "user_stats" table.
	UserStatsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "profile_type", Type: field.TypeString, Default: ""},
		{Name: "engagement_score", Type: field.TypeFloat64},
		{Name: "daily_time", Type: field.TypeFloat64},
		{Name: "streak", Type: field.TypeInt},
		{Name: "dropout_risk", Type: field.TypeFloat64},
		{Name: "course_completion_rate", Type: field.TypeFloat64},
		{Name: "total_study_hours", Type: field.TypeFloat64},
		{Name: "assignments_completed", Type: field.TypeInt},
		{Name: "assignments_total", Type: field.TypeInt},
		{Name: "attendance_rate", Type: field.TypeFloat64, Nullable: true},
		{Name: "first_sem_grade", Type: field.TypeFloat64, Nullable: true},
		{Name: "second_sem_grade", Type: field.TypeFloat64, Nullable: true},
		{Name: "evaluations_attempted", Type: field.TypeInt, Default: 0},
		{Name: "evaluations_passed", Type: field.TypeInt, Default: 0},
		{Name: "last_login_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeInt, Unique: true},
	}
	// UserStatsTable holds the schema information for the "user_stats" table.
	UserStatsTable = &schema.Table{
		Name:       "user_stats",
		Columns:    UserStatsColumns,
		PrimaryKey: []*schema.Column{UserStatsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_stats_users_stats",
				Columns:    []*schema.Column{UserStatsColumns[17]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// NudgeDeliveriesColumns holds the columns for the "nudge_deliveries" table.
	NudgeDeliveriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "nudge_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeInt},
		{Name: "type", Type: field.TypeString},
		{Name: "priority", Type: field.TypeString},
		{Name: "message", Type: field.TypeString, Size: 2147483647},
		{Name: "channel", Type: field.TypeString},
		{Name: "urgent", Type: field.TypeBool, Default: false},
		{Name: "sent_at", Type: field.TypeTime},
	}
	// NudgeDeliveriesTable holds the schema information for the "nudge_deliveries" table.
	NudgeDeliveriesTable = &schema.Table{
		Name:       "nudge_deliveries",
		Columns:    NudgeDeliveriesColumns,
		PrimaryKey: []*schema.Column{NudgeDeliveriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "nudgedelivery_user_id_sent_at",
				Unique:  false,
				Columns: []*schema.Column{NudgeDeliveriesColumns[3], NudgeDeliveriesColumns[9]},
			},
		},
	}

	// NudgeResponsesColumns holds the columns for the "nudge_responses" table.
	NudgeResponsesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "nudge_id", Type: field.TypeString},
		{Name: "response", Type: field.TypeString},
		{Name: "response_hours", Type: field.TypeFloat64},
		{Name: "engagement_change", Type: field.TypeFloat64},
		{Name: "recorded_at", Type: field.TypeTime},
	}
	// NudgeResponsesTable holds the schema information for the "nudge_responses" table.
	NudgeResponsesTable = &schema.Table{
		Name:       "nudge_responses",
		Columns:    NudgeResponsesColumns,
		PrimaryKey: []*schema.Column{NudgeResponsesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "nudgeresponse_nudge_id",
				Unique:  false,
				Columns: []*schema.Column{NudgeResponsesColumns[2]},
			},
		},
	}

	// SequencesColumns holds the columns for the "sequences" table.
	SequencesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "next_val", Type: field.TypeInt64},
	}
	// SequencesTable holds the schema information for the "sequences" table.
	SequencesTable = &schema.Table{
		Name:       "sequences",
		Columns:    SequencesColumns,
		PrimaryKey: []*schema.Column{SequencesColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		UserStatsTable,
		NudgeDeliveriesTable,
		NudgeResponsesTable,
		SequencesTable,
	}
)

func init() {
	UserStatsTable.ForeignKeys[0].RefTable = UsersTable
}
