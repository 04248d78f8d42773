package domain

import "time"

// AssetCategory enumerates the supported asset families.
type AssetCategory string

const (
	CategoryMerchandise AssetCategory = "merchandise"
	CategoryPrint       AssetCategory = "print"
	CategoryDigital     AssetCategory = "digital"
	CategoryVideo       AssetCategory = "video"
)

// AssetKind distinguishes final artifact media types.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// ImagePayload carries inline image bytes as exchanged with the model.
type ImagePayload struct {
	Data []byte
	MIME string
}

// IsZero reports whether the payload carries no bytes.
func (p ImagePayload) IsZero() bool {
	return len(p.Data) == 0
}

// DraftSet holds the surviving variants of one fan-out call. Index position
// is the only identity a draft has; the set lives only for the duration of
// an editing session.
type DraftSet struct {
	Category  AssetCategory
	Subtype   string
	Drafts    []ImagePayload
	CreatedAt time.Time
}

// GeneratedAsset is a finalized artifact committed to the session gallery.
// Immutable after creation.
type GeneratedAsset struct {
	ID         string
	Category   AssetCategory
	Subtype    string
	Kind       AssetKind
	URL        string
	Provenance string
	Final      bool
	CreatedAt  time.Time
}
