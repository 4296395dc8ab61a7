package models

// ExportArtifact is the self-contained export document for one post: the
// post record plus every referenced blob inlined as base64. It is derived on
// demand and never persisted.
type ExportArtifact struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CreatedAt int64        `json:"createdAt"`
	UpdatedAt int64        `json:"updatedAt"`
	Published bool         `json:"published"`
	Content   *Document    `json:"content"`
	Assets    ExportAssets `json:"assets"`
}

// ExportAssets holds inlined binary assets keyed by blob id.
type ExportAssets struct {
	Images map[string]ExportImage `json:"images"`
}

// ExportImage is one inlined image payload.
type ExportImage struct {
	Mime string `json:"mime"`
	Data string `json:"data"`
}
