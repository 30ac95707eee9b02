package schemas

import (
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/page"
)

func init() {
	register(page.Schema{
		Entity:       "category",
		Title:        "Asset Categories",
		Path:         "/asset-categories",
		EmptyMessage: "No categories found.",
		Fields: []page.Field{
			ref("farm_id", "/farms", false),
			ref("parent_id", "/asset-categories", false),
			text("name", true),
			text("code", false),
			area("description"),
			active(),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Name", "name"),
			{Header: "Parent", Key: "parent.name", Format: func(r client.Record) string {
				if name := r.String("parent.name"); name != "" {
					return name
				}
				return "-"
			}},
			col("Active", "is_active"),
		},
	})

	register(page.Schema{
		Entity:       "asset",
		Title:        "Assets",
		Path:         "/assets",
		EmptyMessage: "No assets registered.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			ref("asset_category_id", "/asset-categories", false),
			text("name", true),
			choice("status", "ACTIVE", "ACTIVE", "INACTIVE", "UNDER_REPAIR", "DISPOSED", "SOLD", "LOST"),
			choice("acquisition_type", "", "PURCHASED", "LEASED", "RENTED", "DONATED"),
			date("purchase_date", false),
			number("purchase_cost"),
			{Name: "currency", Kind: page.Text, Default: "NGN"},
			text("supplier_name", false),
			text("serial_number", false),
			text("model", false),
			text("manufacturer", false),
			area("description"),
			area("notes"),
		},
		Columns: []page.Column{
			col("Code", "asset_code"),
			col("Name", "name"),
			col("Category", "asset_category.name"),
			col("Farm", "farm.name"),
			badge("Status", "status"),
		},
	})

	register(page.Schema{
		Entity:       "scale device",
		Title:        "Scale Devices",
		Path:         "/scale-devices",
		EmptyMessage: "No scale devices configured.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			text("name", true),
			choice("connection_type", "MOCK", "SERIAL", "USB", "BLUETOOTH", "TCP_IP", "MOCK"),
			area("connection_config"),
			active(),
		},
		Columns: []page.Column{
			col("Name", "name"),
			col("Farm", "farm.name"),
			col("Connection", "connection_type"),
			col("Active", "is_active"),
		},
	})

	register(page.Schema{
		Entity:       "harvest lot",
		Title:        "Harvest Lots",
		Path:         "/harvest-lots",
		EmptyMessage: "No harvest lots recorded.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			ref("zone_id", "/farm-zones", false),
			ref("season_id", "/seasons", false),
			text("harvested_at", true),
			number("gross_weight"),
			number("net_weight"),
			{Name: "weight_unit", Kind: page.Text, Default: "kg"},
			text("quality_grade", false),
			area("notes"),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Farm", "farm.name"),
			col("Zone", "zone.name"),
			col("Harvested", "harvested_at"),
			qty("Net", "net_weight", "kg"),
			col("Trace ID", "traceability_id"),
		},
	})

	register(page.Schema{
		Entity:       "assignment",
		Title:        "Staff Assignments",
		Path:         "/staff-assignments",
		EmptyMessage: "No staff assignments.",
		Fields: []page.Field{
			ref("user_id", "/users", true),
			{Name: "assignable_type", Kind: page.Select, Required: true, Options: []string{"farm", "site", "zone"}},
			{Name: "assignable_id", Kind: page.Integer, Required: true},
			text("role", true),
			area("core_responsibilities"),
			date("assigned_from", true),
			date("assigned_to", false),
			area("notes"),
		},
		Columns: []page.Column{
			col("Staff", "user.name"),
			col("Role", "role"),
			col("Assigned To", "assignable_type"),
			col("From", "assigned_from"),
			col("Until", "assigned_to"),
			{Header: "Status", Key: "is_current", Status: true, Format: func(r client.Record) string {
				if current, _ := r["is_current"].(bool); current {
					return "Current"
				}
				return "Ended"
			}},
		},
	})

	register(page.Schema{
		Entity:       "user",
		Title:        "Users",
		Path:         "/users",
		EmptyMessage: "No users found.",
		Fields: []page.Field{
			text("name", true),
			text("email", true),
			text("phone", false),
			{Name: "password", Kind: page.Text},
			{Name: "roles", Kind: page.List},
		},
		Columns: []page.Column{
			col("Name", "name"),
			col("Email", "email"),
			col("Phone", "phone"),
			{Header: "Roles", Key: "roles", Format: roleNames},
			{Header: "Farms", Key: "farms", Format: farmNames},
		},
	})
	fromRecord["users"] = userForm
}

func roleNames(r client.Record) string {
	roles, _ := r["roles"].([]any)
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		if m, ok := role.(map[string]any); ok {
			names = append(names, client.Format(m["name"]))
		}
	}
	return strings.Join(names, ", ")
}

// farmNames lists the farms of active memberships.
func farmNames(r client.Record) string {
	farms, _ := r["farms"].([]any)
	names := make([]string, 0, len(farms))
	for _, f := range farms {
		m, ok := f.(map[string]any)
		if !ok || m["membership_status"] == "INACTIVE" {
			continue
		}
		if farm, ok := m["farm"].(map[string]any); ok {
			names = append(names, client.Format(farm["name"]))
		}
	}
	return strings.Join(names, ", ")
}

// userForm leaves the password blank; an empty password keeps the stored
// one.
func userForm(rec client.Record) page.Form {
	form := registry["users"].FormFrom(rec)
	form["password"] = ""
	return form
}

// ParentCandidates lists the categories that may become the parent of
// editing: those of the same farm, excluding editing itself and its
// descendants. editing is nil on a create form.
func ParentCandidates(categories []client.Record, editing client.Record, farmID *uint) []client.Record {
	excluded := map[uint]bool{}
	if editing != nil {
		excluded[editing.ID()] = true
		if farmID == nil {
			farmID = editing.Uint("farm_id")
		}
		// walk down until no new child is found
		for grew := true; grew; {
			grew = false
			for _, c := range categories {
				parent := c.Uint("parent_id")
				if parent != nil && excluded[*parent] && !excluded[c.ID()] {
					excluded[c.ID()] = true
					grew = true
				}
			}
		}
	}

	out := make([]client.Record, 0, len(categories))
	for _, c := range categories {
		if excluded[c.ID()] || !sameFarm(c.Uint("farm_id"), farmID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sameFarm(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
