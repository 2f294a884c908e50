package types

import (
	"strings"
	"time"
)

// Service order statuses.
const (
	StatusInProgress       = "in progress"
	StatusAwaitingApproval = "awaiting approval"
	StatusCompleted        = "completed"
	StatusCancelled        = "cancelled"
)

// EntryDateLayout is the format of ServiceOrder.EntryDate.
const EntryDateLayout = "2006-01-02"

// validStatuses is the set of recognized order status values.
var validStatuses = map[string]bool{
	StatusInProgress:       true,
	StatusAwaitingApproval: true,
	StatusCompleted:        true,
	StatusCancelled:        true,
}

// Statuses lists the order statuses in workflow order.
var Statuses = []string{
	StatusInProgress,
	StatusAwaitingApproval,
	StatusCompleted,
	StatusCancelled,
}

// ValidStatus reports whether status is one of the order statuses.
func ValidStatus(status string) bool {
	return validStatuses[status]
}

// LineItem references a Service or Part on an order. Price is the unit price
// captured when the item was added to the order.
type LineItem struct {
	ID    int     `json:"id"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// ServiceOrder is a work order for one client's vehicle.
type ServiceOrder struct {
	ID        int        `json:"id"`
	ClientID  int        `json:"clientId"`
	VehicleID int        `json:"vehicleId"`
	EntryDate string     `json:"entryDate"`
	Status    string     `json:"status"`
	Services  []LineItem `json:"services"`
	Parts     []LineItem `json:"parts"`
	Notes     string     `json:"notes,omitempty"`
}

// EntityID returns the order id.
func (o ServiceOrder) EntityID() int { return o.ID }

// Clone returns a copy of the order that shares no line item storage with
// the receiver.
func (o ServiceOrder) Clone() ServiceOrder {
	o.Services = cloneLineItems(o.Services)
	o.Parts = cloneLineItems(o.Parts)
	return o
}

// Normalize trims the notes and merges duplicate line items.
func (o *ServiceOrder) Normalize() {
	o.Status = strings.TrimSpace(o.Status)
	o.EntryDate = strings.TrimSpace(o.EntryDate)
	o.Notes = strings.TrimSpace(o.Notes)
	o.Services = MergeLineItems(o.Services)
	o.Parts = MergeLineItems(o.Parts)
}

// Validate checks status, entry date and quantities. References to clients,
// vehicles, services and parts are checked against the store.
func (o ServiceOrder) Validate() error {
	if !ValidStatus(o.Status) {
		return Invalid("status", ErrInvalidStatus)
	}
	if _, err := time.Parse(EntryDateLayout, o.EntryDate); err != nil {
		return Invalid("entryDate", ErrInvalidEntryDate)
	}
	for _, item := range o.Services {
		if item.Qty <= 0 {
			return Invalid("services", ErrInvalidQuantity)
		}
	}
	for _, item := range o.Parts {
		if item.Qty <= 0 {
			return Invalid("parts", ErrInvalidQuantity)
		}
	}
	return nil
}

// Total returns the sum of quantity times unit price over all line items.
func (o ServiceOrder) Total() float64 {
	var total float64
	for _, item := range o.Services {
		total += float64(item.Qty) * item.Price
	}
	for _, item := range o.Parts {
		total += float64(item.Qty) * item.Price
	}
	return total
}

// MergeLineItems folds repeated ids into a single item whose quantity is the
// sum of the repeats. Items keep the position of their first occurrence and
// the price recorded there. An item with a non-positive quantity is never
// folded, so Validate still sees it. The result is never nil.
func MergeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	pos := make(map[int]int, len(items))
	for _, item := range items {
		if i, ok := pos[item.ID]; ok && item.Qty > 0 && out[i].Qty > 0 {
			out[i].Qty += item.Qty
			continue
		}
		pos[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// StripLineItem returns items without any entry for id. The result is never
// nil, and it reports whether anything was removed.
func StripLineItem(items []LineItem, id int) ([]LineItem, bool) {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out, len(out) != len(items)
}

func cloneLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
