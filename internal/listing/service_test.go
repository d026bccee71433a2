package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/pawmart/internal/model"
)

// --- モック定義 ---

// mockListingRepo はListingRepositoryのモック実装。
type mockListingRepo struct {
	listAllFn          func(ctx context.Context) ([]*model.Listing, error)
	findByIDFn         func(ctx context.Context, id string) (*model.Listing, error)
	listRecentFn       func(ctx context.Context, limit int) ([]*model.Listing, error)
	listByOwnerEmailFn func(ctx context.Context, email string) ([]*model.Listing, error)
	listByCategoryFn   func(ctx context.Context, categorySlug string) ([]*model.Listing, error)
	searchByNameFn     func(ctx context.Context, pattern string) ([]*model.Listing, error)
	createFn           func(ctx context.Context, listing *model.Listing) error
	updateFn           func(ctx context.Context, id string, update model.ListingUpdate) (int64, error)
	deleteFn           func(ctx context.Context, id string) (int64, error)
}

func (m *mockListingRepo) ListAll(ctx context.Context) ([]*model.Listing, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockListingRepo) ListRecent(ctx context.Context, limit int) ([]*model.Listing, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockListingRepo) ListByOwnerEmail(ctx context.Context, email string) ([]*model.Listing, error) {
	if m.listByOwnerEmailFn != nil {
		return m.listByOwnerEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockListingRepo) ListByCategory(ctx context.Context, categorySlug string) ([]*model.Listing, error) {
	if m.listByCategoryFn != nil {
		return m.listByCategoryFn(ctx, categorySlug)
	}
	return nil, nil
}

func (m *mockListingRepo) SearchByName(ctx context.Context, pattern string) ([]*model.Listing, error) {
	if m.searchByNameFn != nil {
		return m.searchByNameFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockListingRepo) Create(ctx context.Context, listing *model.Listing) error {
	if m.createFn != nil {
		return m.createFn(ctx, listing)
	}
	return nil
}

func (m *mockListingRepo) Update(ctx context.Context, id string, update model.ListingUpdate) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return 0, nil
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

// mockSanitizer はContentSanitizerServiceのモック実装。
type mockSanitizer struct {
	sanitizeFn func(rawHTML string) string
	calls      int
}

func (m *mockSanitizer) Sanitize(rawHTML string) string {
	m.calls++
	if m.sanitizeFn != nil {
		return m.sanitizeFn(rawHTML)
	}
	return rawHTML
}

// --- Get ---

func TestService_Get_MissReturnsNil(t *testing.T) {
	// 読み取りは0件であることを理由に失敗しない
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	listing, err := svc.Get(context.Background(), "missing-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing != nil {
		t.Errorf("listing = %v, want nil", listing)
	}
}

func TestService_Get_Success(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return &model.Listing{ID: id, Name: "ケージ"}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	listing, err := svc.Get(context.Background(), "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Name != "ケージ" {
		t.Errorf("name = %q, want %q", listing.Name, "ケージ")
	}
}

// --- ListRecent ---

func TestService_ListRecent_UsesFixedLimit(t *testing.T) {
	var gotLimit int
	repo := &mockListingRepo{
		listRecentFn: func(ctx context.Context, limit int) ([]*model.Listing, error) {
			gotLimit = limit
			return []*model.Listing{}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	if _, err := svc.ListRecent(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != RecentLimit {
		t.Errorf("limit = %d, want %d", gotLimit, RecentLimit)
	}
}

// --- ListByOwner ---

func TestService_ListByOwner_OwnerMismatch(t *testing.T) {
	repoCalled := false
	repo := &mockListingRepo{
		listByOwnerEmailFn: func(ctx context.Context, email string) ([]*model.Listing, error) {
			repoCalled = true
			return nil, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.ListByOwner(context.Background(), "alice@example.com", "bob@example.com")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbiddenOwner {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeForbiddenOwner)
	}
	// 所有権違反時はストレージへアクセスしない
	if repoCalled {
		t.Error("repository was called despite ownership mismatch")
	}
}

func TestService_ListByOwner_Match(t *testing.T) {
	repo := &mockListingRepo{
		listByOwnerEmailFn: func(ctx context.Context, email string) ([]*model.Listing, error) {
			if email != "alice@example.com" {
				t.Errorf("email = %q, want %q", email, "alice@example.com")
			}
			return []*model.Listing{{ID: "listing-1"}}, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	listings, err := svc.ListByOwner(context.Background(), "alice@example.com", "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("listings length = %d, want 1", len(listings))
	}
}

// --- ListByCategory ---

func TestService_ListByCategory_AllSentinel(t *testing.T) {
	// "all"は大文字小文字を区別せず全件一覧に振り分けられる
	for _, category := range []string{"all", "All", "ALL"} {
		t.Run(category, func(t *testing.T) {
			listAllCalled := false
			byCategoryCalled := false
			repo := &mockListingRepo{
				listAllFn: func(ctx context.Context) ([]*model.Listing, error) {
					listAllCalled = true
					return nil, nil
				},
				listByCategoryFn: func(ctx context.Context, categorySlug string) ([]*model.Listing, error) {
					byCategoryCalled = true
					return nil, nil
				},
			}
			svc := NewService(repo, &mockSanitizer{})

			if _, err := svc.ListByCategory(context.Background(), category); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !listAllCalled {
				t.Error("ListAll was not called for the all sentinel")
			}
			if byCategoryCalled {
				t.Error("ListByCategory was called for the all sentinel")
			}
		})
	}
}

func TestService_ListByCategory_Specific(t *testing.T) {
	repo := &mockListingRepo{
		listByCategoryFn: func(ctx context.Context, categorySlug string) ([]*model.Listing, error) {
			if categorySlug != "dogs" {
				t.Errorf("categorySlug = %q, want %q", categorySlug, "dogs")
			}
			return nil, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	if _, err := svc.ListByCategory(context.Background(), "dogs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- Create ---

func TestService_Create_AssignsIDAndSanitizesDescription(t *testing.T) {
	var created *model.Listing
	repo := &mockListingRepo{
		createFn: func(ctx context.Context, listing *model.Listing) error {
			created = listing
			return nil
		},
	}
	sanitizer := &mockSanitizer{
		sanitizeFn: func(rawHTML string) string { return "clean" },
	}
	svc := NewService(repo, sanitizer)

	attrs := map[string]any{
		"description": "<script>alert(1)</script>",
		"price":       1200,
	}
	listing, err := svc.Create(context.Background(), "alice@example.com", "ケージ", "cages", attrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.ID == "" {
		t.Error("ID was not assigned")
	}
	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.OwnerEmail != "alice@example.com" {
		t.Errorf("owner_email = %q, want %q", created.OwnerEmail, "alice@example.com")
	}
	if created.Attrs["description"] != "clean" {
		t.Errorf("description = %v, want %q", created.Attrs["description"], "clean")
	}
	// 説明文以外のフィールドは変更しない
	if created.Attrs["price"] != 1200 {
		t.Errorf("price = %v, want 1200", created.Attrs["price"])
	}
	if sanitizer.calls != 1 {
		t.Errorf("sanitizer calls = %d, want 1", sanitizer.calls)
	}
}

// --- Update ---

func TestService_Update_NotFound(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Update(context.Background(), "alice@example.com", "missing-id", model.ListingUpdate{})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeListingNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeListingNotFound)
	}
}

func TestService_Update_OwnerMismatch(t *testing.T) {
	updateCalled := false
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return &model.Listing{ID: id, OwnerEmail: "bob@example.com"}, nil
		},
		updateFn: func(ctx context.Context, id string, update model.ListingUpdate) (int64, error) {
			updateCalled = true
			return 1, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Update(context.Background(), "alice@example.com", "listing-1", model.ListingUpdate{})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbiddenOwner {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeForbiddenOwner)
	}
	if updateCalled {
		t.Error("repository Update was called despite ownership mismatch")
	}
}

func TestService_Update_Success(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return &model.Listing{ID: id, OwnerEmail: "alice@example.com"}, nil
		},
		updateFn: func(ctx context.Context, id string, update model.ListingUpdate) (int64, error) {
			return 1, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	name := "新しい名前"
	modified, err := svc.Update(context.Background(), "alice@example.com", "listing-1", model.ListingUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if modified != 1 {
		t.Errorf("modified = %d, want 1", modified)
	}
}

// --- Delete ---

func TestService_Delete_OwnerMismatch(t *testing.T) {
	deleteCalled := false
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return &model.Listing{ID: id, OwnerEmail: "bob@example.com"}, nil
		},
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			deleteCalled = true
			return 1, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	_, err := svc.Delete(context.Background(), "alice@example.com", "listing-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbiddenOwner {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeForbiddenOwner)
	}
	if deleteCalled {
		t.Error("repository Delete was called despite ownership mismatch")
	}
}

func TestService_Delete_Success(t *testing.T) {
	repo := &mockListingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return &model.Listing{ID: id, OwnerEmail: "alice@example.com"}, nil
		},
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 1, nil
		},
	}
	svc := NewService(repo, &mockSanitizer{})

	deleted, err := svc.Delete(context.Background(), "alice@example.com", "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}
