package domain

// Device is a phone model the shop repairs ("handphone")
type Device struct {
	ID    int64
	Brand string
	Model string
}

// DisplayName returns "Brand Model"
func (d *Device) DisplayName() string {
	if d.Brand == "" {
		return d.Model
	}
	return d.Brand + " " + d.Model
}

// FaultQuote is a fault type ("kendala") priced for a specific device
// through the spare-part replacement table ("pergantian barang")
type FaultQuote struct {
	FaultID   int64
	FaultName string
	DeviceID  int64
	Price     float64
}

// TotalPrice sums quote prices
func TotalPrice(quotes []*FaultQuote) float64 {
	var total float64
	for _, q := range quotes {
		total += q.Price
	}
	return total
}
