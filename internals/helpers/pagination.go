package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage = 1
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

// ParseFiber: parse pagination/sorting langsung dari Fiber ctx.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := opt.DefaultPerPage
	if n, err := strconv.Atoi(strings.TrimSpace(firstNonEmpty(c.Query("per_page"), c.Query("limit")))); err == nil && n > 0 {
		per = n
	}
	if per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}
	if per < 1 {
		per = opt.DefaultPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(firstNonEmpty(c.Query("order"), c.Query("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}

	return Params{
		Page:      page,
		PerPage:   per,
		SortBy:    sortBy,
		SortOrder: order,
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// Limit & Offset
func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Meta untuk response
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func BuildMeta(total int64, p Params) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    p.Page > 1,
		HasNext:    totalPages > 0 && p.Page < totalPages,
	}
}
