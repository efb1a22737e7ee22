package property

import (
	"context"
	"errors"
	"testing"

	bookingModel "villa-booking/models/booking"
	propertyModel "villa-booking/models/property"
)

func TestFromVillaAndRoom(t *testing.T) {
	v := FromVilla(&propertyModel.Villa{ID: 3, Name: "Sunset Villa", Location: "Seminyak", PricePerNight: 250})
	if v.NightlyRate != 250 || v.DisplayName != "Sunset Villa" || v.LocationKey != "Seminyak" {
		t.Errorf("unexpected villa resolution: %+v", v)
	}
	if v.Ref.Key() != "villa:3" {
		t.Errorf("Key() = %q, want villa:3", v.Ref.Key())
	}

	r := FromRoom(&propertyModel.Room{ID: 12, RoomNumber: "101", RoomType: "Deluxe", Building: "Main", PricePerNight: 90})
	if r.DisplayName != "Room 101 (Deluxe)" || r.LocationKey != "Main" || r.NightlyRate != 90 {
		t.Errorf("unexpected room resolution: %+v", r)
	}
	if r.Ref.Key() != "room:12" {
		t.Errorf("Key() = %q, want room:12", r.Ref.Key())
	}
}

func TestResolveUnknownKind(t *testing.T) {
	res := &GormResolver{}
	_, err := res.Resolve(context.Background(), Ref{Kind: bookingModel.PropertyType("tent"), ID: 1})
	if !errors.Is(err, ErrUnknownPropertyType) {
		t.Fatalf("expected ErrUnknownPropertyType, got %v", err)
	}
}
