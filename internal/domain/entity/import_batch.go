package entity

import (
	"encoding/json"
	"time"
)

// ImportOptions opciones que acompañan al lote; se guardan tal cual.
type ImportOptions struct {
	SkipFirstRow bool   `json:"skipfirstrow,omitempty"`
	Delimiter    string `json:"delimiter,omitempty"`
	Charset      string `json:"charset,omitempty"` // utf-8, iso-8859-1, windows-1252
}

// ImportBatch lote de importación pendiente de una sesión.
// Items se guardan sin validar; la validación ocurre al iniciar la importación.
type ImportBatch struct {
	Items    []json.RawMessage `json:"items"`
	Options  ImportOptions     `json:"options"`
	StagedAt time.Time         `json:"staged_at"`
}

// ImportedItem elemento aplicado por la importación.
type ImportedItem struct {
	ID           int64 `json:"id"`
	StoredItemID int64 `json:"storeditemid"`
	LocationID   int64 `json:"locationid"`
	Amount       int   `json:"amount"`
	ReorderPoint int   `json:"reorderpoint"`
}
