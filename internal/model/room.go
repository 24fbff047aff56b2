package model

import "time"

type RoomType string

const (
	RoomTypeCustom       RoomType = "Custom"
	RoomTypeBedroom      RoomType = "Bedroom"
	RoomTypeChildsRoom   RoomType = "Child's room"
	RoomTypeBathroom     RoomType = "Bathroom"
	RoomTypeToilet       RoomType = "Toilet"
	RoomTypeDiningRoom   RoomType = "Dining room"
	RoomTypeEntrance     RoomType = "Entrance"
	RoomTypeDressingRoom RoomType = "Dressing room"
	RoomTypeKitchen      RoomType = "Kitchen"
	RoomTypeOffice       RoomType = "Office"
	RoomTypeLivingRoom   RoomType = "Living room"
	RoomTypeLaundry      RoomType = "Laundry"
	RoomTypeGarage       RoomType = "Garage"
	RoomTypeGarden       RoomType = "Garden"
	RoomTypeHouse        RoomType = "House"
)

// RoomTypes lists every known room category. uniqueRoomTypes in the stats
// row counts distinct values from this set.
var RoomTypes = []RoomType{
	RoomTypeCustom, RoomTypeBedroom, RoomTypeChildsRoom, RoomTypeBathroom,
	RoomTypeToilet, RoomTypeDiningRoom, RoomTypeEntrance, RoomTypeDressingRoom,
	RoomTypeKitchen, RoomTypeOffice, RoomTypeLivingRoom, RoomTypeLaundry,
	RoomTypeGarage, RoomTypeGarden, RoomTypeHouse,
}

var roomIcons = map[RoomType]string{
	RoomTypeCustom:       "cube-outline",
	RoomTypeBedroom:      "bed-outline",
	RoomTypeChildsRoom:   "school-outline",
	RoomTypeBathroom:     "water-outline",
	RoomTypeToilet:       "water-outline",
	RoomTypeDiningRoom:   "restaurant-outline",
	RoomTypeEntrance:     "enter-outline",
	RoomTypeDressingRoom: "shirt-outline",
	RoomTypeKitchen:      "restaurant-outline",
	RoomTypeOffice:       "desktop-outline",
	RoomTypeLivingRoom:   "tv-outline",
	RoomTypeLaundry:      "shirt-outline",
	RoomTypeGarage:       "car-outline",
	RoomTypeGarden:       "leaf-outline",
	RoomTypeHouse:        "home-outline",
}

// RoomIcon returns the icon name associated with a room type. Unknown types
// get the Custom icon.
func RoomIcon(t RoomType) string {
	if icon, ok := roomIcons[t]; ok {
		return icon
	}
	return roomIcons[RoomTypeCustom]
}

// Valid reports whether t is one of the known room categories.
func (t RoomType) Valid() bool {
	_, ok := roomIcons[t]
	return ok
}

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      RoomType  `json:"type"`
	Icon      string    `json:"icon"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
}
