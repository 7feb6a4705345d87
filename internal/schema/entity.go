package schema

// Entity describes one logical record type: where it lives and which of its
// attributes are optional.
type Entity struct {
	Name     string
	Schema   string
	Table    string
	Optional []Attribute
	columns  map[Attribute]string
}

// StudentEntity returns the student record entity. overrides maps logical
// attribute names to physical column names for deployments that diverge
// from the defaults.
func StudentEntity(dbSchema, table string, overrides map[string]string) Entity {
	return newEntity("students", dbSchema, table, StudentOptional, overrides)
}

// DeliveryEntity returns the SMS delivery record entity.
func DeliveryEntity(dbSchema, table string, overrides map[string]string) Entity {
	return newEntity("deliveries", dbSchema, table, DeliveryOptional, overrides)
}

func newEntity(name, dbSchema, table string, optional []Attribute, overrides map[string]string) Entity {
	if dbSchema == "" {
		dbSchema = "public"
	}
	cols := make(map[Attribute]string, len(defaultColumns)+len(overrides))
	for a, c := range defaultColumns {
		cols[a] = c
	}
	for a, c := range overrides {
		if c != "" {
			cols[Attribute(a)] = c
		}
	}
	return Entity{
		Name:     name,
		Schema:   dbSchema,
		Table:    table,
		Optional: optional,
		columns:  cols,
	}
}

// Column returns the physical column name behind a.
func (e Entity) Column(a Attribute) string {
	if c, ok := e.columns[a]; ok {
		return c
	}
	return string(a)
}
