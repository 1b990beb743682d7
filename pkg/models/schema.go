package models

import "time"

// TableColumn describes a single column of an introspected table.
// Type carries the catalog-reported SQL type name, with user-defined
// and array types resolved to something readable (order_status, text[]).
type TableColumn struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Nullable     bool    `json:"nullable"`
	IsPrimary    bool    `json:"isPrimary"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	Comment      *string `json:"comment,omitempty"`
}

// ForeignKey describes one outgoing foreign-key edge of a table.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referencedTable"`
	ReferencedColumn string `json:"referencedColumn"`
}

// TableSchema describes one table with its columns in declaration order.
// Every name in PrimaryKeys corresponds to exactly one column marked
// IsPrimary. EntityName is derived for presentation, never introspected.
type TableSchema struct {
	Name        string        `json:"name"`
	SchemaName  string        `json:"schema"`
	EntityName  string        `json:"entityName,omitempty"`
	Columns     []TableColumn `json:"columns"`
	PrimaryKeys []string      `json:"primaryKeys"`
	ForeignKeys []ForeignKey  `json:"foreignKeys"`
	Description *string       `json:"description,omitempty"`
}

// DatabaseSchema is a snapshot of the target database, tables ordered by
// name. Published snapshots are immutable; a refresh replaces the whole
// value rather than mutating it in place.
type DatabaseSchema struct {
	Tables    []TableSchema `json:"tables"`
	Timestamp time.Time     `json:"timestamp"`
}

// Table returns the table with the given name, or nil when absent.
func (s *DatabaseSchema) Table(name string) *TableSchema {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// SchemaDiff summarizes what changed between two schema snapshots.
// Column entries are qualified as "table.column".
type SchemaDiff struct {
	AddedTables    []string `json:"addedTables,omitempty"`
	RemovedTables  []string `json:"removedTables,omitempty"`
	AddedColumns   []string `json:"addedColumns,omitempty"`
	RemovedColumns []string `json:"removedColumns,omitempty"`
}

// Empty reports whether the diff recorded no changes.
func (d *SchemaDiff) Empty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 &&
		len(d.AddedColumns) == 0 && len(d.RemovedColumns) == 0
}
