// Package prompts renders the text sent to LLM providers: the schema
// context block, the fixed system instruction, and the per-request
// generation prompt.
package prompts

import (
	"fmt"
	"strings"

	"github.com/sqlmind/sqlmind-engine/pkg/models"
)

// FormatSchema renders a schema snapshot into the compact text block used
// as prompt context. This is the only schema information the model ever
// sees, so it carries everything needed for correct joins: per-column
// flags, comments, and the foreign-key edges.
//
// Output per table:
//
//	Table: users
//	Description: registered accounts
//	Columns:
//	  id: integer [PRIMARY KEY, NOT NULL]
//	  email: varchar [NOT NULL] -- login address
//	Foreign Keys:
//	  org_id -> orgs.id
//
// Tables are separated by one blank line. Pure function of its input.
func FormatSchema(schema *models.DatabaseSchema) string {
	if schema == nil || len(schema.Tables) == 0 {
		return ""
	}

	var b strings.Builder
	for i := range schema.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		writeTable(&b, &schema.Tables[i])
	}
	return b.String()
}

func writeTable(b *strings.Builder, table *models.TableSchema) {
	fmt.Fprintf(b, "Table: %s\n", table.Name)
	if table.Description != nil && *table.Description != "" {
		fmt.Fprintf(b, "Description: %s\n", *table.Description)
	}

	b.WriteString("Columns:\n")
	for _, col := range table.Columns {
		fmt.Fprintf(b, "  %s: %s", col.Name, col.Type)
		if flags := columnFlags(col); flags != "" {
			fmt.Fprintf(b, " [%s]", flags)
		}
		if col.Comment != nil && *col.Comment != "" {
			fmt.Fprintf(b, " -- %s", *col.Comment)
		}
		b.WriteString("\n")
	}

	if len(table.ForeignKeys) > 0 {
		b.WriteString("Foreign Keys:\n")
		for _, fk := range table.ForeignKeys {
			fmt.Fprintf(b, "  %s -> %s.%s\n", fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
		}
	}
}

// columnFlags renders the ordered flag subset {PRIMARY KEY, NOT NULL},
// comma-joined, empty when neither applies.
func columnFlags(col models.TableColumn) string {
	var flags []string
	if col.IsPrimary {
		flags = append(flags, "PRIMARY KEY")
	}
	if !col.Nullable {
		flags = append(flags, "NOT NULL")
	}
	return strings.Join(flags, ", ")
}
