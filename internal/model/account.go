package model

// Mapping is one row of a name to account-code table, either the DE-PARA
// table or the supplier base.
type Mapping struct {
	Name string
	Code string
}
