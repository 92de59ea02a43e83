package customer

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errors.New("customer not found")

const DefaultName = "Unnamed"

// WeeklyPayment is the payment status of one week range.
type WeeklyPayment struct {
	Week   string `json:"week"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type Invoice struct {
	Week   string `json:"week"`
	Status string `json:"status"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
}

type Customer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Website        string          `json:"website"`
	Contact        string          `json:"contact"`
	WeeklyPayments []WeeklyPayment `json:"weekly_payments"`
	Invoices       []Invoice       `json:"invoices"`
}

func NewCustomer(dto AddCustomerDTO) Customer {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = DefaultName
	}
	return Customer{
		ID:             uuid.NewString(),
		Name:           name,
		Website:        dto.Website,
		Contact:        dto.Contact,
		WeeklyPayments: []WeeklyPayment{},
		Invoices:       []Invoice{},
	}
}

// WeekKey joins a week range exactly as entered. Differently formatted
// ranges for the same days are different weeks.
func WeekKey(start, end string) string {
	return start + " - " + end
}

// SetPayment replaces the entry for p.Week, if any, and appends p.
func (c *Customer) SetPayment(p WeeklyPayment) {
	kept := make([]WeeklyPayment, 0, len(c.WeeklyPayments)+1)
	for _, existing := range c.WeeklyPayments {
		if existing.Week != p.Week {
			kept = append(kept, existing)
		}
	}
	c.WeeklyPayments = append(kept, p)
}

// SetInvoice replaces the entry for inv.Week, if any, and appends inv.
func (c *Customer) SetInvoice(inv Invoice) {
	kept := make([]Invoice, 0, len(c.Invoices)+1)
	for _, existing := range c.Invoices {
		if existing.Week != inv.Week {
			kept = append(kept, existing)
		}
	}
	c.Invoices = append(kept, inv)
}

func indexOf(customers []Customer, id string) int {
	for i, c := range customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}
