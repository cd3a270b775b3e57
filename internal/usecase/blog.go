package usecase

import (
	"context"
	"html/template"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/logging"
	"ClimbCoach/internal/ports"
	"ClimbCoach/internal/presentation"
)

const (
	cardImageSize     = "medium"
	carouselImageSize = "medium_large"
	postImageSize     = "large"
	cardExcerptLength = 120
	carouselExcerpt   = 150
	filterSampleSize  = 100
	defaultParallel   = 4
)

// Card is the display model of a post in a listing.
type Card struct {
	ID          int
	Slug        string
	URL         string
	Title       string
	Excerpt     string
	Date        string
	MachineDate string
	ImageURL    string
	ImageAlt    string
	AuthorName  string
	Categories  []domain.Category
}

// Listing is one page of cards. Failed means the provider could not be read;
// an empty, non-failed listing means there is simply nothing to show yet.
type Listing struct {
	Cards         []Card
	Page          int
	TotalPages    int
	Failed        bool
	Misconfigured bool
	Category      *domain.Category
}

// PostView is the display model of a full post.
type PostView struct {
	Card
	Content   template.HTML
	Link      string
	Modified  string
	Author    *domain.Author
	AvatarURL string
}

// Blog turns provider content into display models.
type Blog struct {
	provider     ports.ContentProvider
	categorySlug string
	perPage      int
	carouselSize int
	parallelism  int
	logger       *slog.Logger
}

// NewBlog constructs the blog service.
func NewBlog(provider ports.ContentProvider, cfg config.WordPressConfig, log *slog.Logger) *Blog {
	if log == nil {
		log = logging.Discard()
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallel
	}
	return &Blog{
		provider:     provider,
		categorySlug: cfg.CategorySlug,
		perPage:      orDefault(cfg.PerPage, 10),
		carouselSize: orDefault(cfg.CarouselSize, 6),
		parallelism:  parallelism,
		logger:       log,
	}
}

// CategorySlug is the internal routing category.
func (b *Blog) CategorySlug() string {
	return b.categorySlug
}

// CheckCategory reports whether the internal category currently resolves.
func (b *Blog) CheckCategory(ctx context.Context) bool {
	_, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	return ok
}

// Listing returns page of the internal category.
func (b *Blog) Listing(ctx context.Context, page int) Listing {
	page = max(page, 1)
	id, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	if !ok {
		return Listing{Cards: []Card{}, Page: page, Failed: true, Misconfigured: true}
	}
	return b.list(ctx, []int{id}, id, page, b.perPage, cardImageSize, cardExcerptLength)
}

// CategoryListing returns page of posts that carry both the internal category and slug.
// Unknown slugs, including the internal category itself, produce an empty listing.
func (b *Blog) CategoryListing(ctx context.Context, slug string, page int) Listing {
	page = max(page, 1)
	empty := Listing{Cards: []Card{}, Page: page}
	if slug == "" || slug == b.categorySlug {
		return empty
	}

	id, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	if !ok {
		return Listing{Cards: []Card{}, Page: page, Failed: true, Misconfigured: true}
	}

	var filter *domain.Category
	for _, c := range b.provider.ListCategories(ctx, ports.CategoryQuery{Slug: slug}) {
		if c.Slug == slug && c.ID > 0 && c.ID != id {
			filter = &c
			break
		}
	}
	if filter == nil {
		b.logger.Debug("category filter not found", "slug", slug)
		return empty
	}

	listing := b.list(ctx, []int{id, filter.ID}, id, page, b.perPage, cardImageSize, cardExcerptLength)
	listing.Category = filter
	return listing
}

// Carousel returns the newest posts for the home page.
func (b *Blog) Carousel(ctx context.Context) []Card {
	id, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	if !ok {
		return []Card{}
	}
	return b.list(ctx, []int{id}, id, 1, b.carouselSize, carouselImageSize, carouselExcerpt).Cards
}

// Post returns the post behind slug when it belongs to the internal category.
func (b *Blog) Post(ctx context.Context, slug string) (PostView, bool) {
	if slug == "" {
		return PostView{}, false
	}
	id, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	if !ok {
		return PostView{}, false
	}
	post := b.provider.PostBySlug(ctx, slug, id)
	if post == nil {
		return PostView{}, false
	}

	posts := []domain.Post{*post}
	refs := b.enrich(ctx, posts)
	if ctx.Err() != nil {
		return PostView{}, false
	}

	hidden := presentation.Exclusion{ID: id, Slug: b.categorySlug}
	card := refs.card(*post, hidden, postImageSize, 0)
	author := refs.author(*post)

	return PostView{
		Card:      card,
		Content:   presentation.SanitizeContent(post.Content.Rendered),
		Link:      post.Link,
		Modified:  presentation.FormatDate(post.Modified.Time),
		Author:    author,
		AvatarURL: author.Avatar("96"),
	}, true
}

// FilterCategories lists the categories in use by the newest posts of the internal
// category, without the internal category, sorted by name.
func (b *Blog) FilterCategories(ctx context.Context) []domain.Category {
	id, ok := b.provider.ResolveCategoryID(ctx, b.categorySlug)
	if !ok {
		return []domain.Category{}
	}
	page := b.provider.ListPosts(ctx, ports.PostQuery{CategoryIDs: []int{id}, Page: 1, PerPage: filterSampleSize})
	if page.Failed || len(page.Posts) == 0 {
		return []domain.Category{}
	}

	var ids []int
	seen := map[int]struct{}{}
	for _, p := range page.Posts {
		for _, cid := range p.Categories {
			if _, dup := seen[cid]; dup || cid == id {
				continue
			}
			seen[cid] = struct{}{}
			ids = append(ids, cid)
		}
	}
	if len(ids) == 0 {
		return []domain.Category{}
	}

	hidden := presentation.Exclusion{ID: id, Slug: b.categorySlug}
	known := b.provider.ListCategories(ctx, ports.CategoryQuery{Include: ids})
	return presentation.SortCategoriesByName(presentation.VisibleCategories(ids, known, hidden))
}

func (b *Blog) list(ctx context.Context, categoryIDs []int, internalID, page, perPage int, imageSize string, excerpt int) Listing {
	result := b.provider.ListPosts(ctx, ports.PostQuery{CategoryIDs: categoryIDs, Page: page, PerPage: perPage})
	listing := Listing{Cards: []Card{}, Page: page, TotalPages: result.TotalPages, Failed: result.Failed}
	if result.Failed || len(result.Posts) == 0 {
		return listing
	}

	refs := b.enrich(ctx, result.Posts)
	if ctx.Err() != nil {
		listing.Failed = true
		listing.TotalPages = 0
		return listing
	}

	hidden := presentation.Exclusion{ID: internalID, Slug: b.categorySlug}
	for _, p := range result.Posts {
		listing.Cards = append(listing.Cards, refs.card(p, hidden, imageSize, excerpt))
	}
	return listing
}

// enrich fills a request-scoped memo with every author, category and media record the
// posts reference but do not embed. It returns once all lookups have settled.
func (b *Blog) enrich(ctx context.Context, posts []domain.Post) *memo {
	m := newMemo()
	authorIDs, categoryIDs, mediaIDs := missingRefs(posts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)

	if len(categoryIDs) > 0 {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.addCategories(b.provider.ListCategories(gctx, ports.CategoryQuery{Include: categoryIDs}))
			return nil
		})
	}
	for _, id := range authorIDs {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.setAuthor(id, b.provider.Author(gctx, id))
			return nil
		})
	}
	for _, id := range mediaIDs {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.setMedia(id, b.provider.Media(gctx, id))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Debug("lookups aborted", "error", err)
	}
	return m
}

func missingRefs(posts []domain.Post) (authors, categories, media []int) {
	seenAuthor := map[int]struct{}{}
	seenCategory := map[int]struct{}{}
	seenMedia := map[int]struct{}{}

	for _, p := range posts {
		if p.Author > 0 && presentation.EmbeddedAuthor(p) == nil {
			if _, ok := seenAuthor[p.Author]; !ok {
				seenAuthor[p.Author] = struct{}{}
				authors = append(authors, p.Author)
			}
		}
		if len(presentation.EmbeddedCategories(p)) == 0 {
			for _, id := range p.Categories {
				if _, ok := seenCategory[id]; !ok && id > 0 {
					seenCategory[id] = struct{}{}
					categories = append(categories, id)
				}
			}
		}
		if p.FeaturedMedia > 0 && !presentation.HasFeaturedImage(p) {
			if _, ok := seenMedia[p.FeaturedMedia]; !ok {
				seenMedia[p.FeaturedMedia] = struct{}{}
				media = append(media, p.FeaturedMedia)
			}
		}
	}
	return authors, categories, media
}

// memo is filled concurrently during enrich and read only after it returns.
type memo struct {
	mu         sync.Mutex
	authors    map[int]*domain.Author
	categories map[int]domain.Category
	media      map[int]*domain.Media
}

func newMemo() *memo {
	return &memo{
		authors:    map[int]*domain.Author{},
		categories: map[int]domain.Category{},
		media:      map[int]*domain.Media{},
	}
}

func (m *memo) setAuthor(id int, a *domain.Author) {
	if a == nil {
		return
	}
	m.mu.Lock()
	m.authors[id] = a
	m.mu.Unlock()
}

func (m *memo) setMedia(id int, media *domain.Media) {
	if media == nil {
		return
	}
	m.mu.Lock()
	m.media[id] = media
	m.mu.Unlock()
}

func (m *memo) addCategories(categories []domain.Category) {
	m.mu.Lock()
	for _, c := range categories {
		if c.ID > 0 {
			m.categories[c.ID] = c
		}
	}
	m.mu.Unlock()
}

func (m *memo) author(p domain.Post) *domain.Author {
	if a := presentation.EmbeddedAuthor(p); a != nil {
		return a
	}
	return m.authors[p.Author]
}

func (m *memo) knownCategories(p domain.Post) []domain.Category {
	if embedded := presentation.EmbeddedCategories(p); len(embedded) > 0 {
		return embedded
	}
	known := make([]domain.Category, 0, len(p.Categories))
	for _, id := range p.Categories {
		if c, ok := m.categories[id]; ok {
			known = append(known, c)
		}
	}
	return known
}

func (m *memo) imageURL(p domain.Post, size string) (string, string) {
	if presentation.HasFeaturedImage(p) {
		alt := ""
		for _, media := range p.Embedded.FeaturedMedia {
			if media.Usable() {
				alt = media.AltText
				break
			}
		}
		return presentation.FeaturedImageURL(p, size), alt
	}
	media := m.media[p.FeaturedMedia]
	alt := ""
	if media != nil {
		alt = media.AltText
	}
	return presentation.MediaImageURL(media, size), alt
}

func (m *memo) card(p domain.Post, hidden presentation.Exclusion, imageSize string, excerpt int) Card {
	title := presentation.PlainTitle(p.Title)
	imageURL, alt := m.imageURL(p, imageSize)
	if alt == "" {
		alt = title
	}

	card := Card{
		ID:          p.ID,
		Slug:        p.Slug,
		URL:         "/blog/" + p.Slug,
		Title:       title,
		Date:        presentation.FormatDate(p.Date.Time),
		MachineDate: presentation.MachineDate(p.Date.Time),
		ImageURL:    imageURL,
		ImageAlt:    alt,
		Categories:  presentation.VisibleCategories(p.Categories, m.knownCategories(p), hidden),
	}
	if excerpt > 0 {
		card.Excerpt = presentation.PlainTextExcerpt(p, excerpt)
	}
	if a := m.author(p); a != nil {
		card.AuthorName = a.Name
	}
	return card
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
