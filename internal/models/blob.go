package models

// BlobAsset is a binary payload stored independently of any post and
// addressed by a generated id. Posts reference blobs by id only; the store
// keeps no back-reference to owning posts.
type BlobAsset struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	CreatedAt   int64  `json:"createdAt"`
	Payload     []byte `json:"-"`
}
