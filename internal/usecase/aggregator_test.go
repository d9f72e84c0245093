package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chbnews/internal/adapter/fetcher"
	"chbnews/internal/adapter/parser"
	"chbnews/internal/domain"
)

func rssBody(title string, items ...string) string {
	body := "<rss><channel><title>" + title + "</title>"
	for _, item := range items {
		body += item
	}
	return body + "</channel></rss>"
}

func rssItem(title string, pubDate time.Time) string {
	return fmt.Sprintf(
		"<item><title>%s</title><link>https://example.com/%s</link><description>%s</description><pubDate>%s</pubDate></item>",
		title, title, title, pubDate.Format(time.RFC1123Z),
	)
}

func newTestAggregator(t *testing.T, registry map[domain.Category][]domain.FeedDescriptor, timeout time.Duration, limit int) *Aggregator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	norm := testNormalizer(time.Now())
	return NewAggregator(
		fetcher.NewHTTPFetcher(logger),
		parser.NewXMLParser(logger),
		norm,
		registry,
		timeout,
		limit,
		logger,
	)
}

func TestAggregator_Aggregate_MergesAndSorts(t *testing.T) {
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	serverA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("Лента А",
			rssItem("a-old", base.Add(-2*time.Hour)),
			rssItem("a-new", base),
		))
	}))
	defer serverA.Close()
	serverB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("Лента Б",
			rssItem("b-mid", base.Add(-time.Hour)),
		))
	}))
	defer serverB.Close()

	registry := map[domain.Category][]domain.FeedDescriptor{
		domain.CategoryWorld: {
			{Name: "А", URL: serverA.URL, Category: domain.CategoryWorld},
			{Name: "Б", URL: serverB.URL, Category: domain.CategoryWorld},
		},
	}
	agg := newTestAggregator(t, registry, 5*time.Second, 12)

	result, err := agg.Aggregate(context.Background(), domain.CategoryWorld)

	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "a-new", result.Items[0].Title)
	assert.Equal(t, "b-mid", result.Items[1].Title)
	assert.Equal(t, "a-old", result.Items[2].Title)
	assert.Equal(t, []string{"А", "Б"}, result.Sources)
	assert.Equal(t, "А", result.Items[0].Source)
	assert.Equal(t, domain.CategoryWorld, result.Items[0].Category)
}

func TestAggregator_Aggregate_FailedFeedIsolated(t *testing.T) {
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	okItems := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		okItems = append(okItems, rssItem(fmt.Sprintf("ok-%d", i), base.Add(-time.Duration(i)*time.Minute)))
	}
	serverOK := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("Лента", okItems...))
	}))
	defer serverOK.Close()
	serverSlow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(w, rssBody("Медленная", rssItem("slow", base)))
	}))
	defer serverSlow.Close()

	registry := map[domain.Category][]domain.FeedDescriptor{
		domain.CategorySVO: {
			{Name: "Рабочая", URL: serverOK.URL, Category: domain.CategorySVO},
			{Name: "Медленная", URL: serverSlow.URL, Category: domain.CategorySVO},
		},
	}
	agg := newTestAggregator(t, registry, 50*time.Millisecond, 12)

	result, err := agg.Aggregate(context.Background(), domain.CategorySVO)

	require.NoError(t, err)
	require.Len(t, result.Items, 5)
	assert.Equal(t, "ok-0", result.Items[0].Title)
	assert.Equal(t, []string{"Рабочая"}, result.Sources)
}

func TestAggregator_Aggregate_LimitTruncates(t *testing.T) {
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	items := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, rssItem(fmt.Sprintf("item-%02d", i), base.Add(-time.Duration(i)*time.Minute)))
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssBody("Лента", items...))
	}))
	defer server.Close()

	registry := map[domain.Category][]domain.FeedDescriptor{
		domain.CategoryRussia: {
			{Name: "Лента", URL: server.URL, Category: domain.CategoryRussia},
		},
	}
	agg := newTestAggregator(t, registry, 5*time.Second, 12)

	result, err := agg.Aggregate(context.Background(), domain.CategoryRussia)

	require.NoError(t, err)
	assert.Len(t, result.Items, 12)
	assert.Equal(t, "item-00", result.Items[0].Title)
	assert.Equal(t, "item-11", result.Items[11].Title)
}

func TestAggregator_Aggregate_EmptyCategory(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	registry := map[domain.Category][]domain.FeedDescriptor{
		domain.CategoryWorld: {
			{Name: "Лента", URL: server.URL, Category: domain.CategoryWorld},
		},
	}
	agg := newTestAggregator(t, registry, 5*time.Second, 12)

	result, err := agg.Aggregate(context.Background(), domain.CategorySVO)

	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.Sources)
	assert.Equal(t, int64(0), requests.Load())
}

func TestAggregator_Aggregate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	registry := map[domain.Category][]domain.FeedDescriptor{
		domain.CategoryWorld: {
			{Name: "Лента", URL: server.URL, Category: domain.CategoryWorld},
		},
	}
	agg := newTestAggregator(t, registry, 5*time.Second, 12)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := agg.Aggregate(ctx, domain.CategoryWorld)

	assert.ErrorIs(t, err, context.Canceled)
}
