package handler

import "github.com/hitoshi/pawmart/internal/model"

// このAPIのレコードはスキーマ自由なドキュメントとして送受信される。
// 型付きカラムに分解して保存したフィールドを、レスポンス時に
// attrsへ畳み込んで元のドキュメント形状に復元する。

// toAccountDocument はアカウントをレスポンス用ドキュメントに変換する。
func toAccountDocument(a *model.Account) map[string]any {
	doc := copyAttrs(a.Attrs)
	doc["id"] = a.ID
	doc["email"] = a.Email
	doc["name"] = a.Name
	doc["created_at"] = a.CreatedAt
	return doc
}

// toListingDocument はリスティングをレスポンス用ドキュメントに変換する。
func toListingDocument(l *model.Listing) map[string]any {
	doc := copyAttrs(l.Attrs)
	doc["id"] = l.ID
	doc["owner_email"] = l.OwnerEmail
	doc["name"] = l.Name
	doc["category_slug"] = l.CategorySlug
	doc["created_at"] = l.CreatedAt
	doc["updated_at"] = l.UpdatedAt
	return doc
}

// toOrderDocument は注文をレスポンス用ドキュメントに変換する。
func toOrderDocument(o *model.Order) map[string]any {
	doc := copyAttrs(o.Attrs)
	doc["id"] = o.ID
	doc["buyer_email"] = o.BuyerEmail
	doc["created_at"] = o.CreatedAt
	return doc
}

// toListingDocuments はリスティングのスライスをドキュメントのスライスに変換する。
// 0件の場合はnilではなく空スライスを返す（JSONでは[]になる）。
func toListingDocuments(listings []*model.Listing) []map[string]any {
	docs := make([]map[string]any, len(listings))
	for i, l := range listings {
		docs[i] = toListingDocument(l)
	}
	return docs
}

// copyAttrs はattrsの浅いコピーを返す。nilの場合は空マップを返す。
func copyAttrs(attrs map[string]any) map[string]any {
	doc := make(map[string]any, len(attrs)+6)
	for k, v := range attrs {
		doc[k] = v
	}
	return doc
}

// insertResult は挿入操作のストレージ確認応答。
type insertResult struct {
	InsertedCount int64  `json:"inserted_count"`
	InsertedID    string `json:"inserted_id"`
}

// updateResult は更新操作のストレージ確認応答。
type updateResult struct {
	ModifiedCount int64 `json:"modified_count"`
}

// deleteResult は削除操作のストレージ確認応答。
type deleteResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
