package inventory

// Item is a stocked article.
type Item struct {
	SKU   string
	Count int
}

// Shelf holds [Item] values.
type Shelf struct {
	Items []Item
}
