package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/goyalg325/wikiserver/internal/blob"
	"github.com/goyalg325/wikiserver/internal/data"
	"github.com/goyalg325/wikiserver/internal/logger"
)

// maxContentBytes caps page content size.
const maxContentBytes = 10 * 1024 * 1024

// refAllocationAttempts bounds the content reference collision-retry loop.
// Collisions are vanishingly rare but not impossible; exhausting the budget
// is an internal failure, not a silent reuse.
const refAllocationAttempts = 5

// PageRepository defines the interface for database operations on pages.
type PageRepository interface {
	CreatePage(ctx context.Context, page *data.Page) error
	GetPageByTitle(ctx context.Context, title string) (*data.Page, error)
	UpdatePage(ctx context.Context, page *data.Page) error
	DeletePage(ctx context.Context, title string) error
	ListTitles(ctx context.Context) ([]string, error)
	ListTitlesByAuthor(ctx context.Context, author string) ([]string, error)
	ListTitleCategories(ctx context.Context) ([]data.PageSummary, error)
	RefExists(ctx context.Context, ref string) (bool, error)
}

// CategoryRepository defines the interface for the category registry.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

// DirectPageRepository defines the interface for the direct-pages registry.
type DirectPageRepository interface {
	GetAll(ctx context.Context) ([]string, error)
	Contains(ctx context.Context, title string) (bool, error)
	Add(ctx context.Context, title string) error
	Remove(ctx context.Context, title string) error
}

// PageServicer defines the interface for interacting with pages and the
// category registries.
type PageServicer interface {
	CreatePage(ctx context.Context, title, content, author, category string) (*data.Page, error)
	GetPage(ctx context.Context, title string) (*data.Page, error)
	ListPages(ctx context.Context, identity Identity) ([]string, error)
	UpdatePage(ctx context.Context, identity Identity, title, content, author, category string) (*data.Page, error)
	UpdateCategory(ctx context.Context, identity Identity, title, category string) (*data.Page, error)
	DeletePage(ctx context.Context, identity Identity, title string) error
	PagesByCategory(ctx context.Context) ([]data.PageSummary, error)
	Categories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) ([]string, error)
	RemoveCategory(ctx context.Context, name string) error
	DirectPages(ctx context.Context) ([]string, error)
}

// PageService coordinates the page store, the category registry, the
// direct-pages registry and the content blob store so that page mutations
// never leave them contradicting each other. It is the only writer of the
// two registries on the page-mutation path.
type PageService struct {
	pages       PageRepository
	categories  CategoryRepository
	directPages DirectPageRepository
	blobs       blob.Store
	inline      bool
	log         logger.Logger
}

// NewPageService creates a new PageService. When inline is true page content
// lives on the page row and the blob store is never consulted.
func NewPageService(pages PageRepository, categories CategoryRepository, directPages DirectPageRepository, blobs blob.Store, inline bool, log logger.Logger) *PageService {
	return &PageService{
		pages:       pages,
		categories:  categories,
		directPages: directPages,
		blobs:       blobs,
		inline:      inline,
		log:         log,
	}
}

// CreatePage creates a new page, registering its category in the
// direct-pages registry when the category is not already a registered one.
//
// Ordering is load-bearing: the title check runs first, then the registry
// bookkeeping, then the blob write, and the row insert commits last. A
// reader can therefore never observe a row pointing at a blob that was
// never written.
func (s *PageService) CreatePage(ctx context.Context, title, content, author, category string) (*data.Page, error) {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	}
	if content == "" {
		fields["content"] = "content is required"
	}
	if author == "" {
		fields["author"] = "author is required"
	}
	if category == "" {
		fields["category"] = "category is required"
	}
	if len(fields) > 0 {
		return nil, Validation(fields)
	}
	if len(content) > maxContentBytes {
		return nil, Validationf("content exceeds maximum allowed length")
	}

	// Title is the global unique key across the whole page namespace.
	if _, err := s.pages.GetPageByTitle(ctx, title); err == nil {
		return nil, Conflict("a page with this title already exists")
	} else if !errors.Is(err, data.ErrNotFound) {
		return nil, Internal(err, "failed to check existing page")
	}

	registered, err := s.categories.Exists(ctx, category)
	if err != nil {
		return nil, Internal(err, "failed to check category")
	}

	// A page cannot be titled X and filed under a pre-existing category X:
	// that would alias the category and a self-titled page. Membership in
	// the direct-pages registry deliberately does not trip this guard.
	if registered && title == category {
		return nil, Validationf("page title and category name can't be the same")
	}

	if !registered {
		// The category value becomes owned by this page. Add is idempotent,
		// so two concurrent creates racing on the same novel category are
		// harmless.
		if err := s.directPages.Add(ctx, category); err != nil {
			return nil, Internal(err, "failed to record direct page")
		}
	}

	page := &data.Page{
		Title:    title,
		Author:   author,
		Category: category,
	}

	if s.inline {
		page.Content = content
	} else {
		ref, err := s.allocateRef(ctx)
		if err != nil {
			return nil, err
		}
		// Blob before row, always. If the insert below fails the blob is
		// orphaned and left for out-of-band cleanup; the reverse order
		// could expose a row with no content behind it.
		if err := s.blobs.Write(ref, []byte(content)); err != nil {
			return nil, Internal(err, "failed to write page content")
		}
		page.ContentRef = ref
	}

	if err := s.pages.CreatePage(ctx, page); err != nil {
		if errors.Is(err, data.ErrConflict) {
			// Lost a create race on the same title after the blob write.
			if page.ContentRef != "" {
				s.log.Warn(fmt.Sprintf("orphaned content blob %s after create conflict on %q", page.ContentRef, title))
			}
			return nil, Conflict("a page with this title already exists")
		}
		return nil, Internal(err, "failed to create page")
	}

	page.Content = content
	return page, nil
}

// GetPage retrieves a page by title with its content inlined.
func (s *PageService) GetPage(ctx context.Context, title string) (*data.Page, error) {
	page, err := s.pages.GetPageByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, NotFound("page not found")
		}
		return nil, Internal(err, "failed to get page")
	}

	if page.ContentRef != "" {
		if err := s.requireBlobs(); err != nil {
			return nil, err
		}
		content, err := s.blobs.Read(page.ContentRef)
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				// A committed row pointing at a missing blob is a
				// consistency violation, not a missing page.
				return nil, Internal(err, "page content missing")
			}
			return nil, Internal(err, "failed to read page content")
		}
		page.Content = string(content)
	}
	return page, nil
}

// ListPages returns page titles visible to the caller: all of them for an
// admin, only the caller's own for an editor. Any other role is refused.
func (s *PageService) ListPages(ctx context.Context, identity Identity) ([]string, error) {
	switch identity.Role {
	case RoleAdmin:
		titles, err := s.pages.ListTitles(ctx)
		if err != nil {
			return nil, Internal(err, "failed to list pages")
		}
		return titles, nil
	case RoleEditor:
		titles, err := s.pages.ListTitlesByAuthor(ctx, identity.Username)
		if err != nil {
			return nil, Internal(err, "failed to list pages")
		}
		return titles, nil
	default:
		return nil, Forbidden("unauthorized access")
	}
}

// UpdatePage replaces a page's content, author and category. The title and
// the content reference are immutable: externally stored content is
// rewritten in place at the same reference.
//
// Recategorizing deliberately performs none of CreatePage's direct-page
// bookkeeping. See the repository design notes before changing that.
func (s *PageService) UpdatePage(ctx context.Context, identity Identity, title, content, author, category string) (*data.Page, error) {
	fields := map[string]string{}
	if content == "" {
		fields["content"] = "content is required"
	}
	if author == "" {
		fields["author"] = "author is required"
	}
	if category == "" {
		fields["category"] = "category is required"
	}
	if len(fields) > 0 {
		return nil, Validation(fields)
	}
	if len(content) > maxContentBytes {
		return nil, Validationf("content exceeds maximum allowed length")
	}

	page, err := s.pages.GetPageByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, NotFound("page not found")
		}
		return nil, Internal(err, "failed to get page")
	}
	if err := s.authorizeOwnership(identity, page); err != nil {
		return nil, err
	}

	if page.ContentRef != "" {
		if err := s.requireBlobs(); err != nil {
			return nil, err
		}
		if err := s.blobs.Write(page.ContentRef, []byte(content)); err != nil {
			return nil, Internal(err, "failed to write page content")
		}
		page.Content = ""
	} else {
		page.Content = content
	}
	page.Author = author
	page.Category = category

	if err := s.pages.UpdatePage(ctx, page); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, NotFound("page not found")
		}
		return nil, Internal(err, "failed to update page")
	}

	page.Content = content
	return page, nil
}

// UpdateCategory changes only the category field of a page. It shares
// UpdatePage's intentional asymmetry with CreatePage: the registries are
// not touched.
func (s *PageService) UpdateCategory(ctx context.Context, identity Identity, title, category string) (*data.Page, error) {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	}
	if category == "" {
		fields["category"] = "category is required"
	}
	if len(fields) > 0 {
		return nil, Validation(fields)
	}

	page, err := s.pages.GetPageByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, NotFound("page not found")
		}
		return nil, Internal(err, "failed to get page")
	}
	if err := s.authorizeOwnership(identity, page); err != nil {
		return nil, err
	}

	page.Category = category
	if err := s.pages.UpdatePage(ctx, page); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, NotFound("page not found")
		}
		return nil, Internal(err, "failed to update category")
	}
	return page, nil
}

// DeletePage removes a page, its registry entry when the page is the direct
// page for its own category, and its content blob.
//
// Registry cleanup runs first so a concurrent reader never sees a
// direct-page entry referencing an already-deleted page. The blob delete
// tolerates a missing blob, keeping deletion retryable; the row delete is
// last and is the step that makes a second DeletePage return NotFound.
func (s *PageService) DeletePage(ctx context.Context, identity Identity, title string) error {
	page, err := s.pages.GetPageByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return NotFound("page not found")
		}
		return Internal(err, "failed to get page")
	}
	if err := s.authorizeOwnership(identity, page); err != nil {
		return err
	}

	if page.Category == title {
		if err := s.directPages.Remove(ctx, title); err != nil {
			return Internal(err, "failed to remove direct page entry")
		}
	}

	if page.ContentRef != "" {
		if err := s.requireBlobs(); err != nil {
			return err
		}
		if err := s.blobs.Delete(page.ContentRef); err != nil {
			return Internal(err, "failed to delete page content")
		}
	}

	if err := s.pages.DeletePage(ctx, title); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return NotFound("page not found")
		}
		return Internal(err, "failed to delete page")
	}
	return nil
}

// PagesByCategory returns the title+category pairs of all pages. No
// content, no author; it feeds category-browse views.
func (s *PageService) PagesByCategory(ctx context.Context) ([]data.PageSummary, error) {
	pages, err := s.pages.ListTitleCategories(ctx)
	if err != nil {
		return nil, Internal(err, "failed to list pages")
	}
	return pages, nil
}

// Categories returns all registered category names.
func (s *PageService) Categories(ctx context.Context) ([]string, error) {
	names, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, Internal(err, "failed to read categories")
	}
	return names, nil
}

// AddCategory registers a category name and returns the updated list.
func (s *PageService) AddCategory(ctx context.Context, name string) ([]string, error) {
	if name == "" {
		return nil, Validation(map[string]string{"category": "category is required"})
	}
	if err := s.categories.Add(ctx, name); err != nil {
		if errors.Is(err, data.ErrConflict) {
			return nil, Conflict("category already exists")
		}
		return nil, Internal(err, "failed to add category")
	}
	names, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, Internal(err, "failed to read categories")
	}
	return names, nil
}

// RemoveCategory deletes a registered category name. Pages filed under it
// keep their now-dangling category value; that is documented behavior.
func (s *PageService) RemoveCategory(ctx context.Context, name string) error {
	if name == "" {
		return Validation(map[string]string{"category": "category name is required"})
	}
	if err := s.categories.Remove(ctx, name); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return NotFound("category not found")
		}
		return Internal(err, "failed to delete category")
	}
	return nil
}

// DirectPages returns the titles in the direct-pages registry.
func (s *PageService) DirectPages(ctx context.Context) ([]string, error) {
	titles, err := s.directPages.GetAll(ctx)
	if err != nil {
		return nil, Internal(err, "failed to read direct pages")
	}
	return titles, nil
}

// authorizeOwnership fails closed: admins may touch any page, editors only
// their own, anything else is refused outright.
func (s *PageService) authorizeOwnership(identity Identity, page *data.Page) error {
	switch identity.Role {
	case RoleAdmin:
		return nil
	case RoleEditor:
		if page.Author != identity.Username {
			return Forbidden("you can only modify your own pages")
		}
		return nil
	default:
		return Forbidden("unauthorized access")
	}
}

// requireBlobs catches rows carrying an external content reference while the
// service runs without a blob store, which happens when a deployment that
// wrote external content is later switched to inline mode. Failing with a
// named cause beats the nil-interface panic the call would otherwise hit.
func (s *PageService) requireBlobs() error {
	if s.blobs == nil {
		return Internal(errors.New("blob store not configured"), "page content is stored externally but external content storage is disabled")
	}
	return nil
}

// allocateRef generates a content reference that no existing page row uses.
func (s *PageService) allocateRef(ctx context.Context) (string, error) {
	for i := 0; i < refAllocationAttempts; i++ {
		ref := blob.NewRef()
		taken, err := s.pages.RefExists(ctx, ref)
		if err != nil {
			return "", Internal(err, "failed to allocate content reference")
		}
		if !taken {
			return ref, nil
		}
	}
	return "", Internal(errors.New("reference space exhausted"), "failed to allocate content reference")
}
