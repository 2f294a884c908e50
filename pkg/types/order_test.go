package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLineItems(t *testing.T) {
	tests := []struct {
		name string
		in   []LineItem
		want []LineItem
	}{
		{
			name: "nil input yields empty slice",
			in:   nil,
			want: []LineItem{},
		},
		{
			name: "repeated id accumulates quantity",
			in:   []LineItem{{ID: 201, Qty: 1}, {ID: 201, Qty: 1}},
			want: []LineItem{{ID: 201, Qty: 2}},
		},
		{
			name: "first occurrence keeps position and price",
			in: []LineItem{
				{ID: 7, Qty: 1, Price: 10},
				{ID: 3, Qty: 2, Price: 4},
				{ID: 7, Qty: 3, Price: 99},
			},
			want: []LineItem{{ID: 7, Qty: 4, Price: 10}, {ID: 3, Qty: 2, Price: 4}},
		},
		{
			name: "negative repeat is kept apart",
			in:   []LineItem{{ID: 201, Qty: 2}, {ID: 201, Qty: -1}},
			want: []LineItem{{ID: 201, Qty: 2}, {ID: 201, Qty: -1}},
		},
		{
			name: "zero first occurrence is kept apart",
			in:   []LineItem{{ID: 201, Qty: 0}, {ID: 201, Qty: 3}},
			want: []LineItem{{ID: 201, Qty: 0}, {ID: 201, Qty: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLineItems(tt.in))
		})
	}
}

func TestStripLineItem(t *testing.T) {
	items := []LineItem{{ID: 1, Qty: 1}, {ID: 2, Qty: 5}, {ID: 1, Qty: 2}}

	out, removed := StripLineItem(items, 1)
	assert.True(t, removed)
	assert.Equal(t, []LineItem{{ID: 2, Qty: 5}}, out)

	out, removed = StripLineItem(items, 42)
	assert.False(t, removed)
	assert.Len(t, out, 3)
}

func TestServiceOrderCloneIsIndependent(t *testing.T) {
	o := ServiceOrder{
		ID:       1,
		Services: []LineItem{{ID: 1, Qty: 1}},
		Parts:    []LineItem{{ID: 2, Qty: 1}},
	}

	cp := o.Clone()
	cp.Services[0].Qty = 50
	cp.Parts = append(cp.Parts, LineItem{ID: 3, Qty: 1})

	assert.Equal(t, 1, o.Services[0].Qty)
	assert.Len(t, o.Parts, 1)
}

func TestServiceOrderValidate(t *testing.T) {
	valid := ServiceOrder{
		Status:    StatusInProgress,
		EntryDate: "2024-05-01",
		Services:  []LineItem{{ID: 1, Qty: 1}},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(o *ServiceOrder)
		wantErr error
	}{
		{"unknown status", func(o *ServiceOrder) { o.Status = "open" }, ErrInvalidStatus},
		{"malformed date", func(o *ServiceOrder) { o.EntryDate = "01/05/2024" }, ErrInvalidEntryDate},
		{"zero service quantity", func(o *ServiceOrder) { o.Services = []LineItem{{ID: 1}} }, ErrInvalidQuantity},
		{"negative part quantity", func(o *ServiceOrder) { o.Parts = []LineItem{{ID: 1, Qty: -1}} }, ErrInvalidQuantity},
		{"negative repeat after normalize", func(o *ServiceOrder) {
			o.Parts = []LineItem{{ID: 1, Qty: 2}, {ID: 1, Qty: -1}}
			o.Normalize()
		}, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid.Clone()
			tt.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, errors.Is(err, ErrInvalidData))
		})
	}
}

func TestServiceOrderTotal(t *testing.T) {
	o := ServiceOrder{
		Services: []LineItem{{ID: 1, Qty: 2, Price: 50}},
		Parts:    []LineItem{{ID: 9, Qty: 4, Price: 12.5}},
	}
	assert.InDelta(t, 150.0, o.Total(), 1e-9)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC-1234", NormalizePlate("  abc-1234 "))
}
