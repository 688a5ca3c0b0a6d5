package enums

import "fmt"

// MediaKind says where a cropped image will be shown, which decides its
// default output size.
type MediaKind string

const (
	MediaKindDealImage MediaKind = "deal_image"
	MediaKindLogo      MediaKind = "logo"
)

var validMediaKinds = []MediaKind{
	MediaKindDealImage,
	MediaKindLogo,
}

// String returns the literal string for the kind.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the kind is known.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
