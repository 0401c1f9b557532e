package models

// Room is a bookable room as returned by the remote API. Reviews holds the reviews
// embedded in the room record; standalone reviews are fetched separately.
type Room struct {
	ID          string   `json:"_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Image       string   `json:"image,omitempty"`
	Price       float64  `json:"price" validate:"gte=0"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	IsBooked    bool     `json:"isBooked"`
	Reviews     []Review `json:"reviews,omitempty" validate:"dive"`
}

// RoomFilter narrows the catalog by price. Nil bounds are omitted from the query.
type RoomFilter struct {
	MinPrice *float64
	MaxPrice *float64
}
