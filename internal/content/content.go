// Package content holds the cafe's static catalogue, promotions and venue
// details. A Store is loaded once at startup and never changes afterwards.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/m3rciful/cafebot/core/logger"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CategoryPrefix starts the callback data of a category button.
const CategoryPrefix = "cat_"

// maxCallbackData is Telegram's limit for inline button data in bytes.
const maxCallbackData = 64

var (
	// ErrNoCategories is returned when the menu has no categories.
	ErrNoCategories = errors.New("content: menu has no categories")
	// ErrInvalid wraps validation failures of the content file.
	ErrInvalid = errors.New("content: invalid content")
)

// Venue describes the cafe itself.
type Venue struct {
	Name        string
	Address     string
	Phone       string
	Hours       string
	Description string
}

// Item is one menu position.
type Item struct {
	Name        string
	Price       decimal.Decimal
	Description string
	// Photo is an http(s) URL or a Telegram file id; empty when the item has no photo.
	Photo string
}

// Category is a named, ordered group of items.
type Category struct {
	Name  string
	Items []Item
}

// Promotion is a current offer.
type Promotion struct {
	Title       string
	Description string
}

// Store is the read-only content of the bot.
type Store struct {
	venue      Venue
	categories []Category
	index      map[string]int
	promotions []Promotion
}

type fileItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Photo       string `yaml:"photo"`
}

type fileCategory struct {
	Name  string     `yaml:"name"`
	Items []fileItem `yaml:"items"`
}

type fileContent struct {
	Venue struct {
		Name        string `yaml:"name"`
		Address     string `yaml:"address"`
		Phone       string `yaml:"phone"`
		Hours       string `yaml:"hours"`
		Description string `yaml:"description"`
	} `yaml:"venue"`
	Menu       []fileCategory `yaml:"menu"`
	Promotions []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"promotions"`
}

// Load reads and validates the content file at path.
func Load(ctx context.Context, path string) (*Store, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		logger.Error(ctx, "content", "content.load.fail",
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	logger.Info(ctx, "content", "content.loaded",
		slog.String("path", path),
		slog.Int("categories", len(store.categories)),
		slog.Int("items", store.itemCount()),
		slog.Int("promotions", len(store.promotions)),
		slog.Duration("duration", time.Since(start)),
	)
	return store, nil
}

// Parse builds a Store from YAML.
func Parse(data []byte) (*Store, error) {
	var raw fileContent
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("content: parse yaml: %w", err)
	}
	if len(raw.Menu) == 0 {
		return nil, ErrNoCategories
	}

	s := &Store{
		venue: Venue{
			Name:        strings.TrimSpace(raw.Venue.Name),
			Address:     strings.TrimSpace(raw.Venue.Address),
			Phone:       strings.TrimSpace(raw.Venue.Phone),
			Hours:       strings.TrimSpace(raw.Venue.Hours),
			Description: strings.TrimSpace(raw.Venue.Description),
		},
		index: make(map[string]int, len(raw.Menu)),
	}
	if s.venue.Name == "" {
		return nil, fmt.Errorf("%w: venue.name is required", ErrInvalid)
	}

	for i, rc := range raw.Menu {
		cat, err := parseCategory(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: menu[%d]: %v", ErrInvalid, i, err)
		}
		if _, dup := s.index[cat.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalid, cat.Name)
		}
		s.index[cat.Name] = len(s.categories)
		s.categories = append(s.categories, cat)
	}

	for i, rp := range raw.Promotions {
		title := strings.TrimSpace(rp.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: promotions[%d]: title is required", ErrInvalid, i)
		}
		s.promotions = append(s.promotions, Promotion{Title: title, Description: strings.TrimSpace(rp.Description)})
	}
	return s, nil
}

func parseCategory(rc fileCategory) (Category, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return Category{}, errors.New("name is required")
	}
	if len(CategoryPrefix)+len(name) > maxCallbackData {
		return Category{}, fmt.Errorf("name %q is longer than %d bytes", name, maxCallbackData-len(CategoryPrefix))
	}
	cat := Category{Name: name, Items: make([]Item, 0, len(rc.Items))}
	for j, ri := range rc.Items {
		itemName := strings.TrimSpace(ri.Name)
		if itemName == "" {
			return Category{}, fmt.Errorf("items[%d]: name is required", j)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(ri.Price))
		if err != nil {
			return Category{}, fmt.Errorf("items[%d] %q: price: %v", j, itemName, err)
		}
		if price.IsNegative() {
			return Category{}, fmt.Errorf("items[%d] %q: price must not be negative", j, itemName)
		}
		cat.Items = append(cat.Items, Item{
			Name:        itemName,
			Price:       price,
			Description: strings.TrimSpace(ri.Description),
			Photo:       strings.TrimSpace(ri.Photo),
		})
	}
	return cat, nil
}

// Venue returns the venue details.
func (s *Store) Venue() Venue {
	return s.venue
}

// CategoryNames lists categories in catalogue order.
func (s *Store) CategoryNames() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Items returns a copy of the items of the named category.
// An unknown category yields an empty list.
func (s *Store) Items(category string) []Item {
	i, ok := s.index[category]
	if !ok {
		return nil
	}
	return append([]Item(nil), s.categories[i].Items...)
}

// HasCategory reports whether the catalogue contains the named category.
func (s *Store) HasCategory(category string) bool {
	_, ok := s.index[category]
	return ok
}

// Promotions returns a copy of the current promotions.
func (s *Store) Promotions() []Promotion {
	return append([]Promotion(nil), s.promotions...)
}

func (s *Store) itemCount() int {
	n := 0
	for _, c := range s.categories {
		n += len(c.Items)
	}
	return n
}
