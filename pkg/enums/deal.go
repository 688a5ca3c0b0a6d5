package enums

import "fmt"

// DealCategory is the catalogue section a deal is listed under.
type DealCategory string

const (
	DealCategoryFoodDrink     DealCategory = "food_drink"
	DealCategoryBeautySpa     DealCategory = "beauty_spa"
	DealCategoryHealthFitness DealCategory = "health_fitness"
	DealCategoryTravel        DealCategory = "travel"
	DealCategoryActivities    DealCategory = "activities"
	DealCategoryShopping      DealCategory = "shopping"
	DealCategoryServices      DealCategory = "services"
)

var validDealCategories = []DealCategory{
	DealCategoryFoodDrink,
	DealCategoryBeautySpa,
	DealCategoryHealthFitness,
	DealCategoryTravel,
	DealCategoryActivities,
	DealCategoryShopping,
	DealCategoryServices,
}

func (c DealCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known DealCategory.
func (c DealCategory) IsValid() bool {
	for _, candidate := range validDealCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseDealCategory converts raw input into a DealCategory.
func ParseDealCategory(value string) (DealCategory, error) {
	for _, candidate := range validDealCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal category %q", value)
}

// DealStatus tracks a deal from wizard draft to listing.
type DealStatus string

const (
	DealStatusDraft   DealStatus = "draft"
	DealStatusActive  DealStatus = "active"
	DealStatusPaused  DealStatus = "paused"
	DealStatusExpired DealStatus = "expired"
)

var validDealStatuses = []DealStatus{
	DealStatusDraft,
	DealStatusActive,
	DealStatusPaused,
	DealStatusExpired,
}

func (s DealStatus) String() string {
	return string(s)
}

func (s DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDealStatus converts raw input into a DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}
