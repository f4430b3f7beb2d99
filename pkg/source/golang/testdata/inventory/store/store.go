package store

import "example.com/inventory"

// Store owns shelves.
type Store struct {
	Shelves []inventory.Shelf
}
