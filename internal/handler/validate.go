package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate はリクエストボディ検証用の共有バリデータ。
// スレッドセーフであり、全ハンドラーで使い回す。
var validate = validator.New()

// decodeDocument はリクエストボディをスキーマ自由なドキュメントとして読み込む。
// 既知フィールドの取り出しと検証は各ハンドラーが行い、残りはattrsとして保存される。
func decodeDocument(r *http.Request) (map[string]any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// popString はドキュメントから文字列フィールドを取り出して削除する。
// フィールドが存在しない、または文字列でない場合は空文字列を返す。
func popString(doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok {
		return ""
	}
	delete(doc, key)
	s, _ := v.(string)
	return s
}

// validationDetail はvalidatorのエラーを人間向けの短い文字列に変換する。
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return strings.Join(fields, ", ")
}
