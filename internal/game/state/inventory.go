package state

// ItemQty returns how many of itemID the player holds.
func (s *EngineState) ItemQty(itemID string) int {
	for _, st := range s.Inventory {
		if st.ItemID == itemID {
			return st.Qty
		}
	}
	return 0
}

// AddItem adds qty units of itemID, appending a new stack if none exists.
//
// Precondition: qty > 0; non-positive quantities are ignored.
// Postcondition: exactly one stack for itemID exists with the summed quantity.
func (s *EngineState) AddItem(itemID string, qty int) {
	if qty <= 0 {
		return
	}
	for i := range s.Inventory {
		if s.Inventory[i].ItemID == itemID {
			s.Inventory[i].Qty += qty
			return
		}
	}
	s.Inventory = append(s.Inventory, ItemStack{ItemID: itemID, Qty: qty})
}

// RemoveItem takes qty units of itemID. It is atomic: if fewer than qty are
// held nothing changes.
//
// Precondition: qty > 0.
// Postcondition: on true, the stack shrank by qty and was pruned if it reached
// zero; on false, the inventory is unchanged.
func (s *EngineState) RemoveItem(itemID string, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range s.Inventory {
		if s.Inventory[i].ItemID != itemID {
			continue
		}
		if s.Inventory[i].Qty < qty {
			return false
		}
		s.Inventory[i].Qty -= qty
		if s.Inventory[i].Qty == 0 {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
		}
		return true
	}
	return false
}
