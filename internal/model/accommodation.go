package model

import (
	"sort"
	"time"
)

type AccommodationType string

const (
	AccommodationDormitory   AccommodationType = "dormitory"
	AccommodationSharedRoom  AccommodationType = "shared_room"
	AccommodationPrivateRoom AccommodationType = "private_room"
)

// AccommodationPrices is the fixed price list. Prices are never taken from clients.
var AccommodationPrices = map[AccommodationType]float64{
	AccommodationDormitory:   300,
	AccommodationSharedRoom:  600,
	AccommodationPrivateRoom: 1000,
}

func (t AccommodationType) Valid() bool {
	_, ok := AccommodationPrices[t]
	return ok
}

// Price returns the catalog price and false for unknown types.
func (t AccommodationType) Price() (float64, bool) {
	p, ok := AccommodationPrices[t]
	return p, ok
}

type Accommodation struct {
	ID        string            `json:"accommodation_id"`
	Type      AccommodationType `json:"type"`
	Price     float64           `json:"price"`
	CreatedAt time.Time         `json:"created_at"`
}

type AccommodationOption struct {
	Type  AccommodationType `json:"type"`
	Price float64           `json:"price"`
}

// AccommodationCatalog lists the options ordered by price.
func AccommodationCatalog() []AccommodationOption {
	options := make([]AccommodationOption, 0, len(AccommodationPrices))
	for t, p := range AccommodationPrices {
		options = append(options, AccommodationOption{Type: t, Price: p})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Price != options[j].Price {
			return options[i].Price < options[j].Price
		}
		return options[i].Type < options[j].Type
	})
	return options
}

type AccommodationCost struct {
	TeamID                   string  `json:"team_id"`
	PlayersWithAccommodation int     `json:"players_with_accommodation"`
	TotalCost                float64 `json:"total_cost"`
}
