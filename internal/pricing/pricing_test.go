package pricing_test

import (
	"testing"

	"github.com/ryan24411390/clearr-vision-sub000/internal/pricing"
)

func TestQuoteSingleInside(t *testing.T) {
	for _, price := range []int64{1, 350, 990, 1190} {
		b := pricing.Quote(price, pricing.QtyOne, pricing.ZoneInside)
		if b.Subtotal != price {
			t.Fatalf("subtotal = %d, want %d", b.Subtotal, price)
		}
		if b.DeliveryCharge != 60 {
			t.Fatalf("delivery charge = %d, want 60", b.DeliveryCharge)
		}
		if b.Total != price+60 {
			t.Fatalf("total = %d, want %d", b.Total, price+60)
		}
		if b.FreeDelivery {
			t.Fatal("single unit must not get free delivery")
		}
	}
}

func TestQuoteSingleOutside(t *testing.T) {
	b := pricing.Quote(1100, pricing.QtyOne, pricing.ZoneOutside)
	if b.DeliveryCharge != 100 {
		t.Fatalf("delivery charge = %d, want 100", b.DeliveryCharge)
	}
	if b.Total != 1200 {
		t.Fatalf("total = %d, want 1200", b.Total)
	}
}

func TestQuotePairFreeDeliveryBothZones(t *testing.T) {
	for _, zone := range []pricing.Zone{pricing.ZoneInside, pricing.ZoneOutside} {
		b := pricing.Quote(1190, pricing.QtyTwo, zone)
		if !b.FreeDelivery {
			t.Fatalf("two units must be free delivery in zone %s", zone)
		}
		if b.DeliveryCharge != 0 {
			t.Fatalf("delivery charge = %d, want 0", b.DeliveryCharge)
		}
		if b.Subtotal != 2380 || b.Total != 2380 {
			t.Fatalf("got subtotal=%d total=%d, want 2380/2380", b.Subtotal, b.Total)
		}
	}
}

func TestQuoteTotalInvariant(t *testing.T) {
	cases := []struct {
		price int64
		qty   pricing.Quantity
		zone  pricing.Zone
	}{
		{350, pricing.QtyOne, pricing.ZoneInside},
		{350, pricing.QtyOne, pricing.ZoneOutside},
		{350, pricing.QtyTwo, pricing.ZoneInside},
		{990, pricing.QtyTwo, pricing.ZoneOutside},
	}
	for _, tc := range cases {
		b := pricing.Quote(tc.price, tc.qty, tc.zone)
		if b.Total != b.Subtotal+b.DeliveryCharge {
			t.Fatalf("total invariant broken for %+v: %+v", tc, b)
		}
	}
}

func TestQuantityValid(t *testing.T) {
	if !pricing.QtyOne.Valid() || !pricing.QtyTwo.Valid() {
		t.Fatal("1 and 2 must be valid quantities")
	}
	for _, q := range []pricing.Quantity{0, 3, -1} {
		if q.Valid() {
			t.Fatalf("quantity %d must be invalid", q)
		}
	}
}

func TestZoneLabel(t *testing.T) {
	if pricing.ZoneInside.Label() != "Inside Dhaka" {
		t.Fatalf("inside label = %q", pricing.ZoneInside.Label())
	}
	if pricing.ZoneOutside.Label() != "Outside Dhaka" {
		t.Fatalf("outside label = %q", pricing.ZoneOutside.Label())
	}
}
