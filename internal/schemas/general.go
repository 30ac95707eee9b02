package schemas

import (
	"fmt"
	"regexp"
	"time"

	"farmadmin/internal/client"
	"farmadmin/internal/page"
)

func init() {
	register(page.Schema{
		Entity:       "farm",
		Title:        "Farms",
		Path:         "/farms",
		EmptyMessage: "No farms yet.",
		Fields: []page.Field{
			text("name", true),
			text("legal_name", false),
			text("farm_type", false),
			text("country", false),
			text("state", false),
			text("town", false),
			{Name: "default_currency", Kind: page.Text, Default: "NGN"},
			{Name: "default_timezone", Kind: page.Text, Default: "Africa/Lagos"},
			choice("status", "ACTIVE", "ACTIVE", "INACTIVE"),
			number("total_area"),
			text("area_unit", false),
			area("description"),
		},
		Columns: []page.Column{
			col("Code", "farm_code"),
			col("Name", "name"),
			col("Type", "farm_type"),
			col("State", "state"),
			col("Currency", "default_currency"),
			badge("Status", "status"),
		},
	})

	register(page.Schema{
		Entity:       "site type",
		Title:        "Site Types",
		Path:         "/site-types",
		EmptyMessage: "No site types configured.",
		Fields: []page.Field{
			text("code", true),
			text("name", true),
			text("code_prefix", false),
			area("description"),
			active(),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Name", "name"),
			col("Prefix", "code_prefix"),
			col("Active", "is_active"),
		},
	})

	register(page.Schema{
		Entity:       "site",
		Title:        "Sites",
		Path:         "/sites",
		EmptyMessage: "No sites found.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			text("name", true),
			{Name: "type", Kind: page.Select, Required: true, RefPath: "/site-types"},
			text("code", false),
			area("address"),
			number("latitude"),
			number("longitude"),
			number("total_area"),
			text("area_unit", false),
			area("notes"),
			active(),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Name", "name"),
			col("Farm", "farm.name"),
			col("Type", "type"),
			col("Active", "is_active"),
		},
	})

	register(page.Schema{
		Entity:       "zone",
		Title:        "Farm Zones",
		Path:         "/farm-zones",
		EmptyMessage: "No zones found.",
		Fields: []page.Field{
			ref("site_id", "/sites", true),
			ref("crop_id", "/crops", false),
			text("name", true),
			text("code", false),
			number("area"),
			text("area_unit", false),
			text("produce_type", false),
			text("soil_type", false),
			area("description"),
			active(),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Name", "name"),
			col("Site", "site.name"),
			col("Crop", "crop.name"),
			qty("Area", "area", "ha"),
		},
	})

	register(page.Schema{
		Entity:       "season",
		Title:        "Seasons",
		Path:         "/seasons",
		UpdateMethod: "PATCH",
		EmptyMessage: "No seasons found. Create one to get started.",
		Query:        map[string]string{"per_page": "1000"},
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			choice("season_number", "", "Season 1", "Season 2"),
			text("name", true),
			date("start_date", true),
			date("end_date", false),
			choice("status", "PLANNED", "PLANNED", "ACTIVE", "COMPLETED", "CANCELLED"),
			area("notes"),
		},
		Columns: []page.Column{
			col("Name", "name"),
			col("Farm", "farm.name"),
			col("Start", "start_date"),
			col("End", "end_date"),
			badge("Status", "status"),
		},
	})
	onChange["seasons"] = SeasonOnChange
	fromRecord["seasons"] = seasonForm

	register(page.Schema{
		Entity:       "crop",
		Title:        "Crops",
		Path:         "/crops",
		EmptyMessage: "No crops yet.",
		Fields: []page.Field{
			text("name", true),
			text("category", false),
			{Name: "default_maturity_days", Kind: page.Integer},
			area("description"),
		},
		Columns: []page.Column{
			col("Name", "name"),
			col("Category", "category"),
			qty("Maturity", "default_maturity_days", "days"),
		},
	})

	register(page.Schema{
		Entity:       "product",
		Title:        "Products",
		Path:         "/products",
		EmptyMessage: "No products yet.",
		Fields: []page.Field{
			ref("farm_id", "/farms", false),
			text("code", false),
			text("name", true),
			text("category", false),
			text("unit_of_measure", false),
			active(),
		},
		Columns: []page.Column{
			col("Code", "code"),
			col("Name", "name"),
			col("Category", "category"),
			col("Unit", "unit_of_measure"),
			col("Farm", "farm.name"),
		},
	})

	register(page.Schema{
		Entity:       "customer",
		Title:        "Customers",
		Path:         "/customers",
		EmptyMessage: "No customers yet.",
		Fields: []page.Field{
			ref("farm_id", "/farms", false),
			text("name", true),
			choice("customer_type", "", "INDIVIDUAL", "BUSINESS", "DISTRIBUTOR", "RETAILER", "EXPORTER"),
			text("contact", false),
			text("email", false),
			text("phone", false),
			area("address"),
		},
		Columns: []page.Column{
			col("Name", "name"),
			col("Type", "customer_type"),
			col("Phone", "phone"),
			col("Email", "email"),
		},
	})
}

var seasonNumber = regexp.MustCompile(`(?i)^(Season\s+[12])`)

// SeasonOnChange names the season "<number> - <start year>" once both are
// chosen.
func SeasonOnChange(form page.Form, field string) {
	if field != "season_number" && field != "start_date" {
		return
	}
	number := form.String("season_number")
	start, err := time.Parse("2006-01-02", form.String("start_date"))
	if number == "" || err != nil {
		return
	}
	form["name"] = fmt.Sprintf("%s - %d", number, start.Year())
}

// seasonForm recovers the season number from a name like "Season 1 - 2026".
func seasonForm(rec client.Record) page.Form {
	form := registry["seasons"].FormFrom(rec)
	if m := seasonNumber.FindStringSubmatch(rec.String("name")); m != nil {
		form["season_number"] = m[1]
	}
	return form
}
