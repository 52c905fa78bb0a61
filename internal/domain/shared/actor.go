package shared

import "github.com/google/uuid"

// ActorClass identifies which side of the procurement relationship is acting.
// The engine only ever sees the resolved class; credentials and token issuance
// live outside it.
type ActorClass string

const (
	ActorBuyer    ActorClass = "BUYER"
	ActorSupplier ActorClass = "SUPPLIER"
	ActorSystem   ActorClass = "SYSTEM"
)

// IsValid checks if the actor class is known
func (a ActorClass) IsValid() bool {
	switch a {
	case ActorBuyer, ActorSupplier, ActorSystem:
		return true
	}
	return false
}

// String returns the string representation of the actor class
func (a ActorClass) String() string {
	return string(a)
}

// ActorContext carries the resolved identity of the caller for one request.
// PartyID is the buyer organization ID for buyers and the supplier ID for
// suppliers.
type ActorContext struct {
	Class   ActorClass
	PartyID uuid.UUID
}

// BuyerActor builds an ActorContext for a buyer organization
func BuyerActor(orgID uuid.UUID) ActorContext {
	return ActorContext{Class: ActorBuyer, PartyID: orgID}
}

// SupplierActor builds an ActorContext for a supplier portal user
func SupplierActor(supplierID uuid.UUID) ActorContext {
	return ActorContext{Class: ActorSupplier, PartyID: supplierID}
}

// SystemActor builds an ActorContext for engine-initiated transitions
func SystemActor() ActorContext {
	return ActorContext{Class: ActorSystem}
}

// IsBuyer returns true for buyer-class actors
func (a ActorContext) IsBuyer() bool { return a.Class == ActorBuyer }

// IsSupplier returns true for supplier-class actors
func (a ActorContext) IsSupplier() bool { return a.Class == ActorSupplier }
