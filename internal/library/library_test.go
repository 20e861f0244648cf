package library

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/persist"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
)

// fakePersister keeps the last saved snapshot.
type fakePersister struct {
	mu     sync.Mutex
	books  []domain.Book
	saves  int
	loaded []domain.Book
}

func (f *fakePersister) LoadBooks(context.Context) []domain.Book {
	return f.loaded
}

func (f *fakePersister) SaveBooks(_ context.Context, books []domain.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books = books
	f.saves++
}

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestLibrary(t *testing.T, p Persister) *Library {
	t.Helper()
	n := 0
	return New(context.Background(), p, logger.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("r%d", n)
		}),
	)
}

func draft(title, author string, pages int) Draft {
	return Draft{Title: title, Author: author, TotalPages: pages}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestAddDefaults(t *testing.T) {
	p := &fakePersister{}
	l := newTestLibrary(t, p)

	b := l.Add(context.Background(), draft("Dune", "Frank Herbert", 412))

	assert.Equal(t, fixedNow.UnixMilli(), b.ID)
	assert.Equal(t, 0, b.CurrentPage)
	assert.Equal(t, domain.StatusReading, b.Status)
	assert.Equal(t, domain.PriorityNone, b.Priority)
	assert.Equal(t, domain.DefaultCoverURL, b.CoverURL)
	assert.NotNil(t, b.PageReflections)
	assert.NotNil(t, b.PDFAnnotations)
	assert.Equal(t, fixedNow, b.CreatedAt)

	got, ok := l.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, b, got)
	assert.Equal(t, 1, p.saves)
	assert.Len(t, p.books, 1)
}

func TestAddFloorsTotalPages(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	b := l.Add(context.Background(), draft("Zine", "Anon", 0))
	assert.Equal(t, 1, b.TotalPages)
}

func TestRapidAddsGetUniqueIncreasingIDs(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()

	var last int64
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		b := l.Add(ctx, draft(fmt.Sprintf("Book %d", i), "A", 10))
		assert.False(t, seen[b.ID], "duplicate id %d", b.ID)
		assert.Greater(t, b.ID, last)
		seen[b.ID] = true
		last = b.ID
	}
}

func TestNewSeedsIDsFromLoadedBooks(t *testing.T) {
	future := fixedNow.Add(time.Hour).UnixMilli()
	p := &fakePersister{loaded: []domain.Book{
		domain.Normalize(domain.Book{ID: future, Title: "Old", Author: "A", TotalPages: 5}),
	}}
	l := newTestLibrary(t, p)

	b := l.Add(context.Background(), draft("New", "B", 5))
	assert.Equal(t, future+1, b.ID)
}

func TestNewRepairsDuplicateIDs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := &fakePersister{loaded: []domain.Book{
		domain.Normalize(domain.Book{ID: 7, Title: "One", Author: "A", TotalPages: 5}),
		domain.Normalize(domain.Book{ID: 7, Title: "Two", Author: "B", TotalPages: 5}),
	}}

	l := New(context.Background(), p, logger.NewObserved(core),
		WithClock(func() time.Time { return time.UnixMilli(3) }))

	require.Equal(t, 2, l.Count())
	assert.Equal(t, 1, p.saves)
	require.Len(t, p.books, 2)
	assert.Equal(t, int64(7), p.books[0].ID)
	assert.Equal(t, int64(8), p.books[1].ID)
	assert.Equal(t, 1, logs.FilterMessage("reassigned duplicate book id").Len())
}

func TestNewAssignsMissingReflectionIDs(t *testing.T) {
	stored := domain.Normalize(domain.Book{
		ID: 7, Title: "Old", Author: "A", TotalPages: 50,
		PageReflections: []domain.Reflection{
			{Page: 3, Text: "first"},
			{ID: "kept", Page: 4, Text: "second"},
			{Page: 9, Text: "third"},
		},
	})
	p := &fakePersister{loaded: []domain.Book{stored}}
	l := newTestLibrary(t, p)
	ctx := context.Background()

	got, ok := l.Get(7)
	require.True(t, ok)
	ids := []string{got.PageReflections[0].ID, got.PageReflections[1].ID, got.PageReflections[2].ID}
	assert.Equal(t, []string{"r1", "kept", "r2"}, ids)
	assert.Equal(t, 1, p.saves)
	assert.Empty(t, stored.PageReflections[0].ID, "loaded slice must not be modified")

	assert.False(t, l.DeleteReflection(ctx, 7, ""))
	assert.True(t, l.DeleteReflection(ctx, 7, "r2"))
	got, _ = l.Get(7)
	require.Len(t, got.PageReflections, 2)
	assert.Equal(t, "first", got.PageReflections[0].Text)
}

func TestUpdateClampsCurrentPage(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  int
	}{
		{name: "past the end", patch: Patch{CurrentPage: intPtr(205)}, want: 200},
		{name: "negative", patch: Patch{CurrentPage: intPtr(-3)}, want: 0},
		{name: "in range", patch: Patch{CurrentPage: intPtr(42)}, want: 42},
		{name: "total shrinks below current", patch: Patch{CurrentPage: intPtr(150), TotalPages: intPtr(120)}, want: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLibrary(t, &fakePersister{})
			b := l.Add(context.Background(), draft("A", "X", 200))

			got, ok := l.Update(context.Background(), b.ID, tt.patch)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.CurrentPage)
		})
	}
}

func TestUpdateFields(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()
	b := l.Add(ctx, Draft{Title: "A", Author: "X", TotalPages: 100, CoverURL: "https://c/a.jpg"})

	later := domain.StatusLater
	high := domain.PriorityHigh
	bogus := domain.Priority("urgent")
	got, ok := l.Update(ctx, b.ID, Patch{
		Notes:    strPtr("good so far"),
		Status:   &later,
		Priority: &high,
		CoverURL: strPtr(""),
		PDFURL:   strPtr("https://f/a.pdf"),
	})
	require.True(t, ok)
	assert.Equal(t, "good so far", got.Notes)
	assert.Equal(t, domain.StatusLater, got.Status)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, domain.DefaultCoverURL, got.CoverURL)
	assert.Equal(t, "https://f/a.pdf", got.PDFURL)

	got, _ = l.Update(ctx, b.ID, Patch{Priority: &bogus, TotalPages: intPtr(-4)})
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, 1, got.TotalPages)
}

func TestUpdateReflectionsAreSortedAndClamped(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()
	b := l.Add(ctx, draft("A", "X", 50))

	refs := []domain.Reflection{
		{Page: 80, Text: "past the end"},
		{ID: "keep", Page: 10, Text: "ten"},
		{Page: 0, Text: "before the start"},
	}
	got, ok := l.Update(ctx, b.ID, Patch{PageReflections: &refs})
	require.True(t, ok)

	require.Len(t, got.PageReflections, 3)
	assert.Equal(t, 1, got.PageReflections[0].Page)
	assert.Equal(t, 10, got.PageReflections[1].Page)
	assert.Equal(t, "keep", got.PageReflections[1].ID)
	assert.Equal(t, 50, got.PageReflections[2].Page)
	for _, r := range got.PageReflections {
		assert.NotEmpty(t, r.ID)
	}
	// The caller's slice is not aliased.
	assert.Equal(t, 80, refs[0].Page)
}

func TestUpdateUnknownIsNoop(t *testing.T) {
	p := &fakePersister{}
	l := newTestLibrary(t, p)

	_, ok := l.Update(context.Background(), 12345, Patch{CurrentPage: intPtr(3)})
	assert.False(t, ok)
	assert.Equal(t, 0, p.saves)
}

func TestDeleteThenUpdateIsNoop(t *testing.T) {
	p := &fakePersister{}
	l := newTestLibrary(t, p)
	ctx := context.Background()
	b := l.Add(ctx, draft("A", "X", 10))

	assert.True(t, l.Delete(ctx, b.ID))
	assert.False(t, l.Delete(ctx, b.ID))

	_, ok := l.Update(ctx, b.ID, Patch{CurrentPage: intPtr(5)})
	assert.False(t, ok)
	_, ok = l.Get(b.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Count())
	assert.Empty(t, p.books)
}

func TestStatsTwoBookScenario(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()

	a := l.Add(ctx, draft("A", "X", 200))
	b := l.Add(ctx, draft("B", "Y", 100))

	_, ok := l.Update(ctx, b.ID, Patch{CurrentPage: intPtr(100)})
	require.True(t, ok)
	assert.Equal(t, Stats{TotalBooks: 2, Completed: 1, Reading: 1, PagesRead: 100}, l.Stats())

	_, ok = l.Update(ctx, a.ID, Patch{CurrentPage: intPtr(50)})
	require.True(t, ok)
	assert.Equal(t, Stats{TotalBooks: 2, Completed: 1, Reading: 1, PagesRead: 150}, l.Stats())

	got, _ := l.Get(b.ID)
	assert.Equal(t, domain.LabelCompleted, domain.StatusOf(got))
	assert.Equal(t, 100, domain.ProgressPercentage(got))
}

func TestStatsCountsLater(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()

	l.Add(ctx, Draft{Title: "A", Author: "X", TotalPages: 10, Status: domain.StatusLater})
	done := l.Add(ctx, Draft{Title: "B", Author: "Y", TotalPages: 10, Status: domain.StatusLater})
	l.Update(ctx, done.ID, Patch{CurrentPage: intPtr(10)})

	assert.Equal(t, Stats{TotalBooks: 2, Completed: 1, Later: 1, PagesRead: 10}, l.Stats())
}

func TestQueryOrderingAndFilters(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()

	none := l.Add(ctx, Draft{Title: "Neuromancer", Author: "William Gibson", TotalPages: 271})
	low := l.Add(ctx, Draft{Title: "Solaris", Author: "Stanislaw Lem", TotalPages: 204, Priority: domain.PriorityLow})
	high1 := l.Add(ctx, Draft{Title: "Hyperion", Author: "Dan Simmons", TotalPages: 482, Priority: domain.PriorityHigh})
	medium := l.Add(ctx, Draft{Title: "Ubik", Author: "Philip K. Dick", TotalPages: 202, Priority: domain.PriorityMedium})
	high2 := l.Add(ctx, Draft{Title: "Blindsight", Author: "Peter Watts", TotalPages: 384, Priority: domain.PriorityHigh, Status: domain.StatusLater})

	l.Update(ctx, low.ID, Patch{CurrentPage: intPtr(204)})

	ids := func(books []domain.Book) []int64 {
		out := make([]int64, len(books))
		for i, b := range books {
			out[i] = b.ID
		}
		return out
	}

	all := l.Query(FilterAll, "")
	assert.Equal(t, []int64{high2.ID, high1.ID, medium.ID, low.ID, none.ID}, ids(all))

	completed := l.Query(FilterCompleted, "")
	assert.Equal(t, []int64{low.ID}, ids(completed))
	for _, b := range completed {
		assert.GreaterOrEqual(t, b.CurrentPage, b.TotalPages)
	}

	assert.Equal(t, []int64{high2.ID}, ids(l.Query(FilterLater, "")))
	assert.Equal(t, []int64{high1.ID, medium.ID, none.ID}, ids(l.Query(FilterReading, "")))

	assert.Equal(t, []int64{medium.ID}, ids(l.Query(FilterAll, "philip k")))
	assert.Equal(t, []int64{medium.ID}, ids(l.Query(FilterAll, " DICK")))
	assert.Empty(t, l.Query(FilterAll, "  philip "), "search text is matched as given")
	assert.Equal(t, []int64{high1.ID}, ids(l.Query(FilterAll, "HYPER")))
	assert.Empty(t, l.Query(FilterCompleted, "hyperion"))
}

func TestQueryReturnsCopies(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()
	b := l.Add(ctx, draft("A", "X", 10))
	l.AddReflection(ctx, b.ID, ReflectionDraft{Page: 2, Text: "t"})

	got := l.Query(FilterAll, "")
	got[0].Title = "mutated"
	got[0].PageReflections[0].Text = "mutated"

	again, _ := l.Get(b.ID)
	assert.Equal(t, "A", again.Title)
	assert.Equal(t, "t", again.PageReflections[0].Text)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
		ok   bool
	}{
		{"", FilterAll, true},
		{"all", FilterAll, true},
		{"Reading", FilterReading, true},
		{"COMPLETED", FilterCompleted, true},
		{" later ", FilterLater, true},
		{"abandoned", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFilter(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestReflections(t *testing.T) {
	p := &fakePersister{}
	l := newTestLibrary(t, p)
	ctx := context.Background()
	b := l.Add(ctx, draft("A", "X", 30))

	r1, ok := l.AddReflection(ctx, b.ID, ReflectionDraft{Page: 20, Text: "twenty"})
	require.True(t, ok)
	r2, _ := l.AddReflection(ctx, b.ID, ReflectionDraft{Page: 5, Text: "five"})
	r3, _ := l.AddReflection(ctx, b.ID, ReflectionDraft{Page: 20, Text: "twenty again", Mood: "moved"})
	r4, _ := l.AddReflection(ctx, b.ID, ReflectionDraft{Page: 99, Text: "clamped"})

	assert.Equal(t, 30, r4.Page)
	assert.Equal(t, fixedNow, r1.CreatedAt)

	got, _ := l.Get(b.ID)
	order := make([]string, 0, len(got.PageReflections))
	for _, r := range got.PageReflections {
		order = append(order, r.ID)
	}
	assert.Equal(t, []string{r2.ID, r1.ID, r3.ID, r4.ID}, order)

	assert.True(t, l.DeleteReflection(ctx, b.ID, r1.ID))
	assert.False(t, l.DeleteReflection(ctx, b.ID, r1.ID))
	assert.False(t, l.DeleteReflection(ctx, 1, r2.ID))

	got, _ = l.Get(b.ID)
	assert.Len(t, got.PageReflections, 3)
	assert.Len(t, p.books[0].PageReflections, 3)

	_, ok = l.AddReflection(ctx, 1, ReflectionDraft{Page: 1})
	assert.False(t, ok)
}

func TestDefaultReflectionIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newReflectionID()
		require.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestImportSkipsKnownTitles(t *testing.T) {
	p := &fakePersister{}
	l := newTestLibrary(t, p)
	ctx := context.Background()
	l.Add(ctx, draft("Dune", "Frank Herbert", 412))

	res := l.Import(ctx, []Draft{
		draft(" dune ", "FRANK HERBERT", 412),
		draft("Kindred", "Octavia E. Butler", 264),
		draft("kindred", "octavia e. butler", 264),
	})

	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "Kindred", res.Added[0].Title)
	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 2, p.saves)

	res = l.Import(ctx, []Draft{draft("Dune", "Frank Herbert", 1)})
	assert.Empty(t, res.Added)
	assert.Equal(t, 2, p.saves)
}

func TestLibrarySurvivesReload(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	first := newTestLibrary(t, persist.New(kv, "", logger.NewNop()))
	a := first.Add(ctx, draft("A", "X", 200))
	first.Update(ctx, a.ID, Patch{CurrentPage: intPtr(205)})
	first.AddReflection(ctx, a.ID, ReflectionDraft{Page: 3, Text: "t"})

	second := newTestLibrary(t, persist.New(kv, "", logger.NewNop()))
	got, ok := second.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, 200, got.CurrentPage)
	assert.Len(t, got.PageReflections, 1)

	b := second.Add(ctx, draft("B", "Y", 10))
	assert.Greater(t, b.ID, a.ID)
}

func TestConcurrentMutations(t *testing.T) {
	l := newTestLibrary(t, &fakePersister{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := l.Add(ctx, draft(fmt.Sprintf("T%d", i), "A", 10))
			l.Update(ctx, b.ID, Patch{CurrentPage: intPtr(i)})
			_ = l.Query(FilterAll, "t")
			_ = l.Stats()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, l.Count())
}
