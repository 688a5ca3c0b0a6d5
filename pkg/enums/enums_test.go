package enums

import "testing"

func TestParseDealCategory(t *testing.T) {
	got, err := ParseDealCategory("food_drink")
	if err != nil || got != DealCategoryFoodDrink {
		t.Fatalf("expected food_drink, got %q err=%v", got, err)
	}
	if _, err := ParseDealCategory("Food & Drink"); err == nil {
		t.Fatal("expected display labels to be rejected")
	}
	if DealCategory("").IsValid() {
		t.Fatal("empty category must be invalid")
	}
}

func TestParseDealStatus(t *testing.T) {
	for _, raw := range []string{"draft", "active", "paused", "expired"} {
		status, err := ParseDealStatus(raw)
		if err != nil || !status.IsValid() {
			t.Fatalf("status %q should parse, got err=%v", raw, err)
		}
	}
	if _, err := ParseDealStatus("published"); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestParseCouponStatus(t *testing.T) {
	status, err := ParseCouponStatus("redeemed")
	if err != nil || status != CouponStatusRedeemed {
		t.Fatalf("unexpected result %q err=%v", status, err)
	}
	if CouponStatus("used").IsValid() {
		t.Fatal("unknown coupon status must be invalid")
	}
}
