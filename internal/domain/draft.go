package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the title cap in code points, enforced at input boundaries.
const MaxTitleLength = 200

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = fmt.Errorf("title exceeds %d characters", MaxTitleLength)
	ErrContentRequired = errors.New("content is required")
	ErrUnknownCategory = errors.New("unknown category")
)

// Draft holds the caller-supplied fields of a prompt.
type Draft struct {
	Title      string
	Content    string
	Category   string
	URL        string
	IsFavorite bool
}

// Normalize trims the text fields and defaults the category. Input
// boundaries apply it to what the user typed; stored records are never
// normalized.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.URL = strings.TrimSpace(d.URL)
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		d.Category = DefaultCategoryID
	}
	return d
}

// Complete reports whether the normalized draft has a title and content,
// the minimum for a record to enter the library.
func (d Draft) Complete() bool {
	n := d.Normalize()
	return n.Title != "" && n.Content != ""
}

// Validate checks a draft coming from a user-facing form. Every problem is
// reported, joined into one error.
func (d Draft) Validate() error {
	return d.validate("")
}

// ValidateEdit checks a draft that replaces current. Besides the registry,
// the category current already has is accepted, so imported records with
// unknown categories stay editable.
func (d Draft) ValidateEdit(current Prompt) error {
	return d.validate(current.Category)
}

func (d Draft) validate(kept string) error {
	n := d.Normalize()

	var errs []error
	switch {
	case n.Title == "":
		errs = append(errs, ErrTitleRequired)
	case utf8.RuneCountInString(n.Title) > MaxTitleLength:
		errs = append(errs, ErrTitleTooLong)
	}
	if n.Content == "" {
		errs = append(errs, ErrContentRequired)
	}
	if !IsAssignable(n.Category) && (kept == "" || n.Category != strings.TrimSpace(kept)) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCategory, n.Category))
	}
	return errors.Join(errs...)
}
