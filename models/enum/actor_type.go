package enum

type ActorType string

const (
	ActorTypeBuyer    ActorType = "BUYER"
	ActorTypeSupplier ActorType = "SUPPLIER"
)

func (a ActorType) Valid() bool {
	return a == ActorTypeBuyer || a == ActorTypeSupplier
}

// Counterparty returns the other side of the negotiation.
func (a ActorType) Counterparty() ActorType {
	if a == ActorTypeBuyer {
		return ActorTypeSupplier
	}
	return ActorTypeBuyer
}
