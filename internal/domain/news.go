package domain

import "time"

// Category — тематическая рубрика новостей.
type Category string

const (
	CategoryWorld  Category = "world"
	CategoryRussia Category = "russia"
	CategorySVO    Category = "svo"
)

// AllCategories — фиксированный набор рубрик агрегатора в порядке отображения.
var AllCategories = []Category{CategoryWorld, CategoryRussia, CategorySVO}

// IsValid сообщает, относится ли значение к известным рубрикам.
func (c Category) IsValid() bool {
	switch c {
	case CategoryWorld, CategoryRussia, CategorySVO:
		return true
	}
	return false
}

// FeedDescriptor описывает один настроенный RSS-источник рубрики.
// Задается при старте приложения и не изменяется.
type FeedDescriptor struct {
	Name     string
	URL      string
	Category Category
}

// Item представляет сырую запись RSS-ленты до нормализации.
// Нулевой PubDate означает, что дата публикации отсутствовала или не разобралась.
type Item struct {
	Title       string
	Link        string
	Description string
	PubDate     time.Time
}

// Feed представляет разобранную RSS-ленту с метаданными и списком записей.
type Feed struct {
	Title       string
	Link        string
	Description string
	Items       []Item
}

// NewsItem — нормализованная новость в едином формате агрегатора.
// После создания не изменяется: при обновлении рубрики список заменяется целиком.
type NewsItem struct {
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	PubDate          time.Time `json:"pubDate"`
	RawDescription   string    `json:"rawDescription"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Source           string    `json:"source"`
	Category         Category  `json:"category"`
	FormattedDate    string    `json:"formattedDate"`
	IsManual         bool      `json:"isManual,omitempty"`
}

// FeedResult — итог загрузки одной ленты. При любой ошибке ленты Items пуст.
type FeedResult struct {
	Source string
	Items  []NewsItem
}

// CategoryResult — собранная рубрика: новости по убыванию даты публикации
// и имена лент, давших хотя бы одну новость.
type CategoryResult struct {
	Items   []NewsItem `json:"items"`
	Sources []string   `json:"sources"`
}

// Dataset — полный снимок новостей по всем рубрикам. Единица кэширования.
type Dataset struct {
	World        CategoryResult `json:"world"`
	Russia       CategoryResult `json:"russia"`
	SVO          CategoryResult `json:"svo"`
	Timestamp    time.Time      `json:"timestamp"`
	TotalNews    int            `json:"totalNews"`
	TotalSources int            `json:"totalSources"`
}

// NewDataset возвращает пустой датасет с инициализированными рубриками.
func NewDataset() *Dataset {
	return &Dataset{
		World:  CategoryResult{Items: []NewsItem{}, Sources: []string{}},
		Russia: CategoryResult{Items: []NewsItem{}, Sources: []string{}},
		SVO:    CategoryResult{Items: []NewsItem{}, Sources: []string{}},
	}
}

// Category возвращает указатель на результат рубрики внутри датасета
// или nil для неизвестной рубрики.
func (d *Dataset) Category(c Category) *CategoryResult {
	switch c {
	case CategoryWorld:
		return &d.World
	case CategoryRussia:
		return &d.Russia
	case CategorySVO:
		return &d.SVO
	}
	return nil
}

// Recalculate пересчитывает итоговые счетчики: TotalNews — сумма новостей
// всех рубрик, TotalSources — мощность объединения множеств источников.
func (d *Dataset) Recalculate() {
	total := 0
	union := make(map[string]struct{})
	for _, c := range AllCategories {
		cr := d.Category(c)
		total += len(cr.Items)
		for _, s := range cr.Sources {
			union[s] = struct{}{}
		}
	}
	d.TotalNews = total
	d.TotalSources = len(union)
}

// AllItems возвращает конкатенацию новостей всех рубрик в порядке world, russia, svo.
func (d *Dataset) AllItems() []NewsItem {
	all := make([]NewsItem, 0, d.TotalNews)
	for _, c := range AllCategories {
		all = append(all, d.Category(c).Items...)
	}
	return all
}
