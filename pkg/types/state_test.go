package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCloneIsDeep(t *testing.T) {
	s := NewState()
	s.Clients = append(s.Clients, Client{ID: 1, Name: "Ana"})
	s.ServiceOrders = append(s.ServiceOrders, ServiceOrder{
		ID:       1,
		Services: []LineItem{{ID: 201, Qty: 1}},
		Parts:    []LineItem{},
	})
	s.Sequences[ClientsCollection] = 4

	cp := s.Clone()
	cp.Clients[0].Name = "Bruno"
	cp.ServiceOrders[0].Services[0].Qty = 9
	cp.Sequences[ClientsCollection] = 10

	assert.Equal(t, "Ana", s.Clients[0].Name)
	assert.Equal(t, 1, s.ServiceOrders[0].Services[0].Qty)
	assert.Equal(t, 4, s.Sequences[ClientsCollection])
}

func TestStateCloneOfNil(t *testing.T) {
	var s *State
	cp := s.Clone()
	require.NotNil(t, cp)
	assert.Empty(t, cp.Clients)
	assert.NotNil(t, cp.ServiceOrders)
}

func TestStateNextID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *State)
		want  int
	}{
		{
			name:  "empty collection starts at one",
			setup: func(s *State) {},
			want:  1,
		},
		{
			name: "one past the highest existing id",
			setup: func(s *State) {
				s.Parts = []Part{{ID: 3}, {ID: 11}, {ID: 5}}
			},
			want: 12,
		},
		{
			name: "deleted high id is not reused",
			setup: func(s *State) {
				s.Parts = []Part{{ID: 3}}
				s.Sequences[PartsCollection] = 11
			},
			want: 12,
		},
		{
			name: "records above a stale high-water mark win",
			setup: func(s *State) {
				s.Parts = []Part{{ID: 20}}
				s.Sequences[PartsCollection] = 11
			},
			want: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			tt.setup(s)
			assert.Equal(t, tt.want, s.NextID(PartsCollection))
			assert.Equal(t, tt.want, s.Sequences[PartsCollection])
		})
	}
}

func TestStateNextIDReservesSequentially(t *testing.T) {
	s := &State{}
	assert.Equal(t, 1, s.NextID(ServicesCollection))
	assert.Equal(t, 2, s.NextID(ServicesCollection))
	assert.Equal(t, 1, s.NextID(ClientsCollection))
}
