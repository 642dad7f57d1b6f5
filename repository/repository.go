// Package repository holds the explicit read paths of the service layer.
// Each function states what it joins or preloads so query cost is visible
// at the call site. Lookups by id return (nil, nil) when the row is absent.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is a normalized page request.
type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps page and perPage to sane values: page defaults to 1,
// perPage to DefaultPerPage and is capped at MaxPerPage.
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Number: number, PerPage: perPage}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Pages returns how many pages are needed to hold total rows.
func (p Page) Pages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// apply limits q to the page. The zero Page leaves q unbounded.
func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.PerPage == 0 {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.PerPage)
}

// first runs q.First and folds ErrRecordNotFound into a nil result.
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
