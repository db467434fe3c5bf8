package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Renditions maps a quality label ("720p") to the object key of the encoded
// rendition. Stored as a JSON column.
type Renditions map[string]string

func (r Renditions) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal Renditions: %w", err)
	}
	return b, nil
}
func (r *Renditions) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Renditions.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("unmarshal Renditions: %w", err)
	}
	return nil
}

// Sprite describes the scrub-preview sheet and the tiling parameters a
// client needs to map a scrub position to a cell. Stored as a JSON column;
// the zero value means no sprite was generated.
type Sprite struct {
	ObjectKey       string `json:"object_key,omitempty"`
	URL             string `json:"url,omitempty"`
	TileWidth       int    `json:"tile_width,omitempty"`
	TileHeight      int    `json:"tile_height,omitempty"`
	Columns         int    `json:"columns,omitempty"`
	IntervalSeconds int    `json:"interval_seconds,omitempty"`
	FrameCount      int    `json:"frame_count,omitempty"`
}

func (s Sprite) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal Sprite: %w", err)
	}
	return b, nil
}
func (s *Sprite) Scan(src interface{}) error {
	if src == nil {
		*s = Sprite{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Sprite.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("unmarshal Sprite: %w", err)
	}
	return nil
}
