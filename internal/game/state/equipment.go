package state

import "fmt"

// Slot names an equipment slot.
type Slot string

const (
	SlotWeapon     Slot = "weapon"
	SlotArmor      Slot = "armor"
	SlotAccessory1 Slot = "accessory1"
	SlotAccessory2 Slot = "accessory2"
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotAccessory1, SlotAccessory2}

// Equipment maps the four slots to an optional item id. Empty means unequipped.
type Equipment struct {
	Weapon     string `json:"weapon,omitempty"`
	Armor      string `json:"armor,omitempty"`
	Accessory1 string `json:"accessory1,omitempty"`
	Accessory2 string `json:"accessory2,omitempty"`
}

// ParseSlot converts a raw slot name.
//
// Postcondition: Returns the slot or an error naming the unknown value.
func ParseSlot(s string) (Slot, error) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown equipment slot %q", s)
}

// Get returns the item id in slot, or "" if empty or slot is unknown.
func (e Equipment) Get(slot Slot) string {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotArmor:
		return e.Armor
	case SlotAccessory1:
		return e.Accessory1
	case SlotAccessory2:
		return e.Accessory2
	}
	return ""
}

// Set stores itemID in slot. An empty itemID clears the slot.
//
// Postcondition: Returns false and leaves e unchanged if slot is unknown.
func (e *Equipment) Set(slot Slot, itemID string) bool {
	switch slot {
	case SlotWeapon:
		e.Weapon = itemID
	case SlotArmor:
		e.Armor = itemID
	case SlotAccessory1:
		e.Accessory1 = itemID
	case SlotAccessory2:
		e.Accessory2 = itemID
	default:
		return false
	}
	return true
}
