package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles.
	// Limited to 200 to fit in PostgreSQL VARCHAR(200) and keep slugs
	// derived from titles within the slug column.
	MaxDocumentTitleLength = 200

	// MaxSlugLength is the maximum length for document and category slugs.
	// Auto-derived slugs are suffixed on collision, so derivation leaves
	// headroom below this.
	MaxSlugLength = 200

	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 100

	// MaxTagLength is the maximum length of a single tag name.
	MaxTagLength = 100

	// MaxTagsPerDocument caps the tag set on one document.
	MaxTagsPerDocument = 50

	// MaxAttachmentNameLength is the maximum length for attachment display
	// names, matching the filename column.
	MaxAttachmentNameLength = 255

	// MaxAttachmentSize caps a single uploaded file.
	MaxAttachmentSize = 50 << 20 // 50MB

	// MaxSlugAttempts bounds the collision suffix search when deriving a
	// unique slug (title, title-2, ... title-N).
	MaxSlugAttempts = 100
)
