package types

// Cloner is implemented by every entity. Clone must return a value that
// shares no mutable memory with the receiver.
type Cloner[T any] interface {
	Clone() T
}

// Entity is a record with an integer identity that can be deep-copied.
type Entity[T any] interface {
	Cloner[T]
	EntityID() int
}

// CloneAll deep-copies a collection. The result is never nil, so an empty
// collection encodes as [] rather than null.
func CloneAll[T Cloner[T]](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// State is the whole store document: one ordered collection per entity kind
// plus the id high-water mark of each collection.
type State struct {
	Clients       []Client       `json:"clients"`
	Vehicles      []Vehicle      `json:"vehicles"`
	Parts         []Part         `json:"parts"`
	Services      []Service      `json:"services"`
	ServiceOrders []ServiceOrder `json:"serviceOrders"`

	// Sequences maps a collection name to the highest id ever assigned in
	// it, so that deleting the newest record does not free its id.
	Sequences map[string]int `json:"sequences,omitempty"`
}

// NewState returns a State with every collection empty.
func NewState() *State {
	return &State{
		Clients:       []Client{},
		Vehicles:      []Vehicle{},
		Parts:         []Part{},
		Services:      []Service{},
		ServiceOrders: []ServiceOrder{},
		Sequences:     map[string]int{},
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	cp := &State{
		Clients:       CloneAll(s.Clients),
		Vehicles:      CloneAll(s.Vehicles),
		Parts:         CloneAll(s.Parts),
		Services:      CloneAll(s.Services),
		ServiceOrders: CloneAll(s.ServiceOrders),
		Sequences:     make(map[string]int, len(s.Sequences)),
	}
	for k, v := range s.Sequences {
		cp.Sequences[k] = v
	}
	return cp
}

// NextID reserves and returns the next id for collection: one past the
// larger of the highest id present and the highest id ever assigned.
func (s *State) NextID(collection string) int {
	high := s.Sequences[collection]
	if m := s.maxID(collection); m > high {
		high = m
	}
	if s.Sequences == nil {
		s.Sequences = map[string]int{}
	}
	s.Sequences[collection] = high + 1
	return high + 1
}

func (s *State) maxID(collection string) int {
	switch collection {
	case ClientsCollection:
		return maxEntityID(s.Clients)
	case VehiclesCollection:
		return maxEntityID(s.Vehicles)
	case PartsCollection:
		return maxEntityID(s.Parts)
	case ServicesCollection:
		return maxEntityID(s.Services)
	case ServiceOrdersCollection:
		return maxEntityID(s.ServiceOrders)
	default:
		return 0
	}
}

func maxEntityID[T Entity[T]](items []T) int {
	m := 0
	for _, item := range items {
		if id := item.EntityID(); id > m {
			m = id
		}
	}
	return m
}
