package enum

// Incoterm is a standardized trade term defining which party bears
// shipping cost and risk at each leg.
type Incoterm string

const (
	IncotermEXW Incoterm = "EXW"
	IncotermFCA Incoterm = "FCA"
	IncotermFOB Incoterm = "FOB"
	IncotermCFR Incoterm = "CFR"
	IncotermCIF Incoterm = "CIF"
	IncotermDDP Incoterm = "DDP"
)

func (i Incoterm) Valid() bool {
	switch i {
	case IncotermEXW, IncotermFCA, IncotermFOB, IncotermCFR, IncotermCIF, IncotermDDP:
		return true
	}
	return false
}
