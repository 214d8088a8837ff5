package types

import "math/big"

// GasCost is the estimated cost of a transaction: gas_units * gas_price.
type GasCost struct {
	GasUnits uint64
	GasPrice *big.Int
}

// Total returns gas_units * gas_price as a single wei amount.
func (g GasCost) Total() *big.Int {
	if g.GasPrice == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(g.GasUnits), g.GasPrice)
}
