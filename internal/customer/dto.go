package customer

import (
	"net/http"
	"strings"
)

type AddCustomerDTO struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Contact string `json:"contact"`
}

// WeekUpdateDTO carries update_payment and update_invoice forms. Reason is
// only used by invoices.
type WeekUpdateDTO struct {
	ID        string `json:"id"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

func (d WeekUpdateDTO) Week() string {
	return WeekKey(d.WeekStart, d.WeekEnd)
}

func AddCustomerFromForm(r *http.Request) AddCustomerDTO {
	return AddCustomerDTO{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Website: strings.TrimSpace(r.PostFormValue("website")),
		Contact: strings.TrimSpace(r.PostFormValue("contact")),
	}
}

func WeekUpdateFromForm(r *http.Request) WeekUpdateDTO {
	return WeekUpdateDTO{
		ID:        strings.TrimSpace(r.PostFormValue("id")),
		WeekStart: r.PostFormValue("week_start"),
		WeekEnd:   r.PostFormValue("week_end"),
		Status:    strings.TrimSpace(r.PostFormValue("status")),
		Reason:    strings.TrimSpace(r.PostFormValue("reason")),
	}
}

type CustomersView struct {
	Customers []Customer `json:"customers"`
	CanEdit   bool       `json:"can_edit"`
}
