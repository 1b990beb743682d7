package services

import "github.com/sqlmind/sqlmind-engine/pkg/models"

// DiffSchemas compares two schema snapshots and reports what appeared and
// what went away. Tables are matched by display name; column entries are
// qualified as "table.column". Only presence is compared — a type change
// on a surviving column is not drift.
func DiffSchemas(previous, current *models.DatabaseSchema) *models.SchemaDiff {
	diff := &models.SchemaDiff{}
	if previous == nil || current == nil {
		return diff
	}

	prevTables := tablesByName(previous)
	currTables := tablesByName(current)

	for _, table := range current.Tables {
		prev, ok := prevTables[table.Name]
		if !ok {
			diff.AddedTables = append(diff.AddedTables, table.Name)
			continue
		}
		prevCols := columnNames(prev)
		for _, col := range table.Columns {
			if !prevCols[col.Name] {
				diff.AddedColumns = append(diff.AddedColumns, table.Name+"."+col.Name)
			}
		}
	}

	for _, table := range previous.Tables {
		curr, ok := currTables[table.Name]
		if !ok {
			diff.RemovedTables = append(diff.RemovedTables, table.Name)
			continue
		}
		currCols := columnNames(curr)
		for _, col := range table.Columns {
			if !currCols[col.Name] {
				diff.RemovedColumns = append(diff.RemovedColumns, table.Name+"."+col.Name)
			}
		}
	}

	return diff
}

func tablesByName(schema *models.DatabaseSchema) map[string]*models.TableSchema {
	byName := make(map[string]*models.TableSchema, len(schema.Tables))
	for i := range schema.Tables {
		byName[schema.Tables[i].Name] = &schema.Tables[i]
	}
	return byName
}

func columnNames(table *models.TableSchema) map[string]bool {
	names := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		names[col.Name] = true
	}
	return names
}
