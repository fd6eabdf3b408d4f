package database

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// StaffColumns holds the columns for the "staff" table.
	StaffColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Size: 2147483647},
		{Name: "email", Type: field.TypeString, Unique: true, Size: 2147483647},
		{Name: "password_hash", Type: field.TypeString, Size: 2147483647},
		{Name: "role", Type: field.TypeEnum, Enums: []string{"admin", "staff"}, Default: "staff"},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "full_admin", Type: field.TypeBool, Default: false},
		{Name: "permissions", Type: field.TypeOther, SchemaType: map[string]string{dialect.Postgres: "text[]"}, Default: schema.Expr("'{}'")},
		{Name: "created_at", Type: field.TypeTime, Default: schema.Expr("now()")},
		{Name: "updated_at", Type: field.TypeTime, Default: schema.Expr("now()")},
	}
	// StaffTable holds the schema information for the "staff" table.
	StaffTable = &schema.Table{
		Name:       "staff",
		Columns:    StaffColumns,
		PrimaryKey: []*schema.Column{StaffColumns[0]},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"staff_role_check": "role IN ('admin', 'staff')"},
		},
	}

	// IncomeEntriesColumns holds the columns for the "income_entries" table.
	IncomeEntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "entry_date", Type: field.TypeTime, SchemaType: dateType},
		{Name: "created_at", Type: field.TypeTime, Default: schema.Expr("now()")},
	}
	// IncomeEntriesTable holds the schema information for the "income_entries" table.
	IncomeEntriesTable = &schema.Table{
		Name:       "income_entries",
		Columns:    IncomeEntriesColumns,
		PrimaryKey: []*schema.Column{IncomeEntriesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "income_entries_entry_date_idx", Columns: []*schema.Column{IncomeEntriesColumns[3]}},
		},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"income_entries_amount_check": "amount > 0"},
		},
	}

	// ExpenseEntriesColumns holds the columns for the "expense_entries" table.
	ExpenseEntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "description", Type: field.TypeString, Size: 2147483647},
		{Name: "amount", Type: field.TypeOther, SchemaType: moneyType},
		{Name: "expense_date", Type: field.TypeTime, SchemaType: dateType},
		{Name: "notes", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime, Default: schema.Expr("now()")},
	}
	// ExpenseEntriesTable holds the schema information for the "expense_entries" table.
	ExpenseEntriesTable = &schema.Table{
		Name:       "expense_entries",
		Columns:    ExpenseEntriesColumns,
		PrimaryKey: []*schema.Column{ExpenseEntriesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "expense_entries_expense_date_idx", Columns: []*schema.Column{ExpenseEntriesColumns[3]}},
		},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"expense_entries_amount_check": "amount > 0"},
		},
	}

	// Tables holds every table the ledger and staff stores use.
	Tables = []*schema.Table{
		StaffTable,
		IncomeEntriesTable,
		ExpenseEntriesTable,
	}
)

var (
	moneyType = map[string]string{dialect.Postgres: "numeric(12,2)"}
	dateType  = map[string]string{dialect.Postgres: "date"}
)
