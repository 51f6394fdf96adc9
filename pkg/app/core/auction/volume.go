package auction

// VolumeAtPrice sums the quantity of orders on side that can trade at price.
// Solve rejects sides whose total quantity would overflow the sum.
func VolumeAtPrice(side Side, price int64, orders []Order, md MarketData) int64 {
	var total int64
	for i := range orders {
		if CanTradeAt(side, orders[i], price, md) {
			total += orders[i].Quantity
		}
	}
	return total
}

// VolumeTraded is the executable quantity at price: the smaller of the two sides.
func VolumeTraded(price int64, buys, sells []Order, md MarketData) int64 {
	return min(VolumeAtPrice(Buy, price, buys, md), VolumeAtPrice(Sell, price, sells, md))
}

// BuyExcessAtPrice is the marketable buy quantity left unexecuted at price.
func BuyExcessAtPrice(price int64, buys, sells []Order, md MarketData) int64 {
	return VolumeAtPrice(Buy, price, buys, md) - VolumeTraded(price, buys, sells, md)
}

// SellExcessAtPrice is the marketable sell quantity left unexecuted at price.
func SellExcessAtPrice(price int64, buys, sells []Order, md MarketData) int64 {
	return VolumeAtPrice(Sell, price, sells, md) - VolumeTraded(price, buys, sells, md)
}

// Imbalance is the signed excess at price: positive for buy excess, negative
// for sell excess.
func Imbalance(price int64, buys, sells []Order, md MarketData) int64 {
	return VolumeAtPrice(Buy, price, buys, md) - VolumeAtPrice(Sell, price, sells, md)
}
