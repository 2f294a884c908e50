package types

// Collection names as they appear in the durable snapshot.
const (
	ClientsCollection       = "clients"
	VehiclesCollection      = "vehicles"
	PartsCollection         = "parts"
	ServicesCollection      = "services"
	ServiceOrdersCollection = "serviceOrders"
)

// CollectionNames lists the snapshot collections in dependency order:
// referenced collections come before the ones that reference them.
var CollectionNames = []string{
	ClientsCollection,
	VehiclesCollection,
	PartsCollection,
	ServicesCollection,
	ServiceOrdersCollection,
}
