package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoredItem artículo del catálogo del punto de venta.
type StoredItem struct {
	ID        int64
	Code      string
	Qty       int
	Name      string
	TaxID     int64
	Cost      decimal.Decimal
	Price     decimal.Decimal
	Type      string
	UpdatedAt time.Time
}

// SupplierInfo campos que se editan desde la ficha de proveedor del artículo.
type SupplierInfo struct {
	Code  string
	Qty   int
	Name  string
	TaxID int64
	Cost  decimal.Decimal
	Price decimal.Decimal
	Type  string
}

// ApplySupplier copia los datos de proveedor sobre el artículo.
func (i *StoredItem) ApplySupplier(s SupplierInfo) {
	i.Code = s.Code
	i.Qty = s.Qty
	i.Name = s.Name
	i.TaxID = s.TaxID
	i.Cost = s.Cost
	i.Price = s.Price
	i.Type = s.Type
}
