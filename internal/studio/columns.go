package studio

import (
	"github.com/Rana718/roster/internal/datatable"
	"github.com/Rana718/roster/internal/models"
)

// Action is a button rendered in the actions column.
type Action struct {
	Label   string `json:"label"`
	Method  string `json:"method"`
	URL     string `json:"url"`
	Confirm string `json:"confirm,omitempty"`
}

func customerColumns(role models.Role) []datatable.Column[models.Customer] {
	cols := []datatable.Column[models.Customer]{
		datatable.Data[models.Customer]("Name", "name"),
		datatable.Data[models.Customer]("Email", "email"),
		{
			Header: "Phone",
			Kind:   datatable.DataColumn("phone"),
			Render: func(c models.Customer) any { return c.FullPhone() },
		},
		datatable.Data[models.Customer]("City", "city"),
		datatable.Data[models.Customer]("Country", "country"),
		datatable.Data[models.Customer]("Consultant", "consultant_type"),
		datatable.Data[models.Customer]("Subscription", "subscription_status"),
		datatable.Data[models.Customer]("Ends", "subscription_end_date"),
	}
	if role.CanManage() {
		cols = append(cols, datatable.Actions("Actions", func(c models.Customer) any {
			return []Action{{
				Label:   "Delete",
				Method:  "DELETE",
				URL:     "/api/customers/" + c.ID,
				Confirm: "Delete " + c.Name + "?",
			}}
		}))
	}
	return cols
}

func consultantColumns() []datatable.Column[models.Consultant] {
	return []datatable.Column[models.Consultant]{
		datatable.Data[models.Consultant]("Name", "name"),
		datatable.Data[models.Consultant]("Email", "email"),
		datatable.Data[models.Consultant]("Phone", "phone"),
		datatable.Data[models.Consultant]("Role", "role"),
		datatable.Data[models.Consultant]("Department", "department"),
		datatable.Data[models.Consultant]("Status", "status"),
	}
}
