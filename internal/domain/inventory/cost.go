package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el nuevo costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la suma de cantidades es <= 0 retorna cero (no hay base para promediar).
func WeightedAverageCost(currentQty, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	total := currentQty.Add(inQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	value := currentQty.Mul(currentCost).Add(inQty.Mul(inCost))
	return value.Div(total)
}
