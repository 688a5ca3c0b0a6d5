package media

import (
	"fmt"
	"mime"
	"strings"

	"github.com/dealdesk/merchant-portal/pkg/enums"
)

var inputTypesByKind = map[enums.MediaKind][]string{
	enums.MediaKindDealImage: {"image/gif", "image/jpeg", "image/png", "image/webp"},
	enums.MediaKindLogo:      {"image/jpeg", "image/png", "image/webp"},
}

// dataURLMimeType reads the media type out of a "data:<type>;base64," header.
func dataURLMimeType(dataURL string) (string, error) {
	header, _, ok := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return "", fmt.Errorf("data url header missing")
	}
	mediaType, _, err := mime.ParseMediaType(strings.TrimPrefix(header, "data:"))
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

func isAllowedInput(kind enums.MediaKind, mimeType string) bool {
	for _, candidate := range inputTypesByKind[kind] {
		if candidate == mimeType {
			return true
		}
	}
	return false
}

func allowedDescription(kind enums.MediaKind) string {
	names := make([]string, 0, len(inputTypesByKind[kind]))
	for _, value := range inputTypesByKind[kind] {
		names = append(names, strings.ToUpper(strings.TrimPrefix(value, "image/")))
	}
	return humanReadableList(names)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
