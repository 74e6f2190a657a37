package ledger

import "bodegabaratote/backend/internal/domain"

// migratePriceLists regenerates the price list of every product whose
// list is missing, empty, or fails the ownership-prefix check (old
// document formats, or lists copied across products). Running it on an
// already-migrated document changes nothing.
func migratePriceLists(state *domain.Snapshot) bool {
	changed := false
	for i := range state.Products {
		p := &state.Products[i]
		if ownsPriceList(*p) {
			continue
		}
		p.Precios = priceTiers(p.ID, p.Precio, nil)
		changed = true
	}
	return changed
}
