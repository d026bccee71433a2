package repository

import (
	"encoding/json"
	"fmt"
)

// marshalAttrs は任意フィールドのマップをJSONBカラム用のバイト列に変換する。
// nilマップは空オブジェクトとして保存する。
func marshalAttrs(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("attrsのシリアライズに失敗しました: %w", err)
	}
	return data, nil
}

// unmarshalAttrs はJSONBカラムのバイト列を任意フィールドのマップに復元する。
func unmarshalAttrs(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("attrsの読み取りに失敗しました: %w", err)
	}
	return attrs, nil
}
