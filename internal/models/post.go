package models

import (
	"encoding/json"
	"time"
)

// DefaultPostTitle is assigned to freshly created posts.
const DefaultPostTitle = "Untitled Post"

// Post is a user-authored content record. Content is nil until the first
// edit. Timestamps are Unix milliseconds; UpdatedAt is never older than
// CreatedAt.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   *Document `json:"content"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
	Published bool      `json:"published"`
}

// Clone returns a deep copy so snapshots do not alias the caller's blocks.
func (p Post) Clone() Post {
	out := p
	out.Content = p.Content.Clone()
	return out
}

// NowMillis returns the current wall clock as Unix milliseconds, the
// timestamp unit used throughout the post collection and export files.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Document is the structured post content: an ordered sequence of typed
// blocks.
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Version string  `json:"version,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// Clone deep-copies the document. Returns nil for a nil document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Blocks = make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return &out
}

// Block is one typed content block. Data is the type-specific payload kept
// as raw JSON; only image payloads are interpreted by this system.
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// BlockTypeImage is the block type whose payload references a stored blob.
const BlockTypeImage = "image"

type imageBlockData struct {
	File struct {
		ImageID string `json:"imageId"`
		URL     string `json:"url,omitempty"`
	} `json:"file"`
}

// ImageID returns the blob reference carried by an image block, or "" when
// the block is not an image or carries no reference. The reference is a
// plain lookup key; it may point at a deleted blob.
func (b Block) ImageID() string {
	if b.Type != BlockTypeImage || len(b.Data) == 0 {
		return ""
	}
	var data imageBlockData
	if err := json.Unmarshal(b.Data, &data); err != nil {
		return ""
	}
	return data.File.ImageID
}

// WithImageURL returns a copy of an image block whose payload carries the
// given display URL. The URL is transient render state and is recomputed on
// every load; it is never written back to the store.
func (b Block) WithImageURL(url string) Block {
	if b.Type != BlockTypeImage || len(b.Data) == 0 {
		return b
	}
	var data map[string]any
	if err := json.Unmarshal(b.Data, &data); err != nil {
		return b
	}
	file, _ := data["file"].(map[string]any)
	if file == nil {
		return b
	}
	file["url"] = url
	raw, err := json.Marshal(data)
	if err != nil {
		return b
	}
	out := b
	out.Data = raw
	return out
}

func (b Block) clone() Block {
	out := b
	if b.Data != nil {
		out.Data = append(json.RawMessage(nil), b.Data...)
	}
	return out
}
