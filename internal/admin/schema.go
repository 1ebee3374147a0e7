package admin

import "sort"

// Field describes one entity field for the generic admin listing UI.
type Field struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Entity is a statically declared schema description. The admin surface
// consumes these instead of reflecting over model structs.
type Entity struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

var entities = map[string]Entity{
	"vehicles": {
		Name: "vehicles",
		Fields: []Field{
			{Name: "id", Type: "integer", Label: "ID"},
			{Name: "manufacturer", Type: "string", Label: "Manufacturer"},
			{Name: "model", Type: "string", Label: "Model"},
			{Name: "model_year", Type: "integer", Label: "Year"},
			{Name: "battery_capacity_kwh", Type: "decimal", Label: "Battery Capacity (kWh)"},
			{Name: "electric_range_miles", Type: "integer", Label: "EPA Range (miles)"},
		},
	},
	"stations": {
		Name: "stations",
		Fields: []Field{
			{Name: "id", Type: "integer", Label: "ID"},
			{Name: "name", Type: "string", Label: "Name"},
			{Name: "address", Type: "string", Label: "Address"},
			{Name: "latitude", Type: "decimal", Label: "Latitude"},
			{Name: "longitude", Type: "decimal", Label: "Longitude"},
			{Name: "network", Type: "string", Label: "Network"},
		},
	},
	"statuses": {
		Name: "statuses",
		Fields: []Field{
			{Name: "id", Type: "integer", Label: "ID"},
			{Name: "station_id", Type: "integer", Label: "Station"},
			{Name: "status", Type: "enum", Label: "Status"},
			{Name: "user_id", Type: "integer", Label: "Reporter"},
			{Name: "reported_at", Type: "timestamp", Label: "Reported At"},
		},
	},
	"submissions": {
		Name: "submissions",
		Fields: []Field{
			{Name: "id", Type: "integer", Label: "ID"},
			{Name: "user_id", Type: "integer", Label: "User"},
			{Name: "daily_miles", Type: "decimal", Label: "Daily Miles"},
			{Name: "overnight_hours", Type: "decimal", Label: "Charging Hours"},
			{Name: "efficiency_kwh_per_mile", Type: "decimal", Label: "Efficiency (kWh/mi)"},
			{Name: "required_kw", Type: "decimal", Label: "Required kW"},
			{Name: "level2_needed", Type: "boolean", Label: "Level 2 Needed"},
			{Name: "recommendation", Type: "string", Label: "Recommendation"},
			{Name: "submitted_at", Type: "timestamp", Label: "Submitted At"},
		},
	},
	"users": {
		Name: "users",
		Fields: []Field{
			{Name: "id", Type: "integer", Label: "ID"},
			{Name: "email", Type: "string", Label: "Email"},
			{Name: "role", Type: "enum", Label: "Role"},
			{Name: "created_at", Type: "timestamp", Label: "Created At"},
		},
	},
}

// Schema returns the descriptor for an entity name.
func Schema(name string) (Entity, bool) {
	e, ok := entities[name]
	return e, ok
}

// Names lists the described entities.
func Names() []string {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
